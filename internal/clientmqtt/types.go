package clientmqtt

import "github.com/powerswitch/led-commander-16-2/internal/preview"

type MQTTConf struct {
	ClientID string // ClientID - уникальное имя клиента для брокеров.
	Schema   string // Schema - тип подключения.
	Host     string // Host - адрес MQTT сервера.
	Port     string // Port - порт MQTT сервера.
	User     string // User - логин для подключения к MQTT серверу.
	Password string // Password - пароль для подключения к MQTT серверу.
	Qos      byte   // Qos - качество обслуживания.
	Topic    string // Topic - корень топиков, кадр уходит в <Topic>/<сцена>.
}

type DMXCommand struct {
	Channel uint16 // Channel is the channel a command can talk to (0-511).
	Value   uint8  // Value is the value a DMX channel can represent (0-255).
}

type Payload []DMXCommand

// NewPayload lists the non-zero channels of a rendered frame.
func NewPayload(f preview.Frame) Payload {
	cmds := f.Commands()
	p := make(Payload, len(cmds))
	for i, c := range cmds {
		p[i] = DMXCommand{Channel: c.Channel, Value: c.Value}
	}
	return p
}
