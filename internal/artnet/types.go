package artnet

import "time"

// ArtNetConf - параметры отправки кадра предпросмотра.
type ArtNetConf struct {
	CIDR     string        // CIDR - сеть, в которой ищется интерфейс.
	Universe uint16        // Universe: старший байт - Net, младший байт - SubUni.
	Interval time.Duration // Interval - период повторной отправки кадра.
}
