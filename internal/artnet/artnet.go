package artnet

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Haba1234/go-artnet"
	"github.com/powerswitch/led-commander-16-2/internal/logger"
	"github.com/powerswitch/led-commander-16-2/internal/preview"
)

// ArtNet is transport for the ArtNet protocol (DMX over UDP/IP).
type ArtNet struct {
	logger   logger.Logger
	sender   *artnet.Controller
	cfg      ArtNetConf
	ctx      context.Context
	frames   <-chan preview.Frame
	stop     chan struct{}
	done     chan struct{}
	started  bool
	lastSent preview.Frame
}

// Controller is a convenience interface to use within this application.
type Controller interface {
	Start(ctx context.Context, frames <-chan preview.Frame) error
	Stop()
}

// NewController returns an art-net Controller bound to the interface found in cfg.CIDR.
func NewController(log logger.Logger, cfg ArtNetConf) (*ArtNet, error) {
	ip, err := FindArtNetIP(cfg.CIDR)
	if err != nil {
		return nil, fmt.Errorf("failed to find the art-net IP: %w", err)
	}

	if len(ip) == 0 {
		return nil, errors.New("failed to find the art-net IP: No interface found")
	}

	host, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve hostname: %w", err)
	}

	host = strings.ToLower(strings.Split(host, ".")[0])
	log.With(logger.Fields{"module": "art-net"}).Infof("Using ArtNet IP %s and hostname %s", ip.String(), host)

	senderLogger := artnet.NewDefaultLogger("info")

	return &ArtNet{
		logger: log,
		sender: artnet.NewController(host, ip, senderLogger, artnet.MaxFPS(1)),
		cfg:    cfg,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}, nil
}

// Start the ArtNet. Every frame received is sent at once and then repeated
// each Interval so nodes discovered later still get it.
func (c *ArtNet) Start(ctx context.Context, frames <-chan preview.Frame) error {
	if err := c.sender.Start(); err != nil {
		return fmt.Errorf("failed to start Controller: %w", err)
	}

	c.ctx = ctx
	c.frames = frames
	c.started = true
	go c.sendBackground()
	return nil
}

// Stop the ArtNet.
func (c *ArtNet) Stop() {
	if !c.started {
		return
	}
	close(c.stop)
	<-c.done
	c.sender.Stop()
}

func (c *ArtNet) sendBackground() {
	defer close(c.done)
	log := c.logger.With(logger.Fields{"module": "art-net"})
	t := time.NewTicker(c.cfg.Interval)
	defer t.Stop()

	var have bool
	for {
		select {
		case <-c.ctx.Done():
			return
		case <-c.stop:
			return
		case f, ok := <-c.frames:
			if !ok {
				return
			}
			c.lastSent, have = f, true
			log.Infof("sending %s to universe %d", f.Label, c.cfg.Universe)
			c.send(f)
		case <-t.C:
			if !have {
				continue
			}
			log.Debugf("Currently %d devices are registered, resending %s", len(c.sender.Nodes), c.lastSent.Label)
			c.send(c.lastSent)
		}
	}
}

func (c *ArtNet) send(f preview.Frame) {
	c.sender.SendDMXToAddress(f.Universe, universeToAddress(c.cfg.Universe))
}

// universeToAddress converts a dmx universe to art-net address
// universe: старший байт - Net, младший байт - SubUni.
func universeToAddress(universe uint16) artnet.Address {
	v := make([]uint8, 2)
	binary.BigEndian.PutUint16(v, universe)

	return artnet.Address{
		Net:    v[0],
		SubUni: v[1],
	}
}
