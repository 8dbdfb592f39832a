package clientmqtt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/powerswitch/led-commander-16-2/internal/logger"
	"github.com/powerswitch/led-commander-16-2/internal/preview"
)

// ClientMQTT структура клиента MQTT.
type ClientMQTT struct {
	ctx       context.Context
	log       logger.Logger
	cfgClient MQTTConf
	client    mqtt.Client
	opts      *mqtt.ClientOptions
}

// MQTTClient is a convenience interface to use within this application.
type MQTTClient interface {
	Start(ctx context.Context) error
	Stop() error
	Publish(f preview.Frame) error
	Run(ctx context.Context, frames <-chan preview.Frame)
}

// NewClient конструктор.
func NewClient(log logger.Logger, cfgClient MQTTConf) *ClientMQTT {
	return &ClientMQTT{
		log:       log,
		cfgClient: cfgClient,
	}
}

func (c *ClientMQTT) Start(ctx context.Context) error {
	if c.log.GetLevel() == "debug" {
		mqtt.ERROR = log.New(os.Stderr, "[ERROR] ", 0)
		mqtt.CRITICAL = log.New(os.Stderr, "[CRIT] ", 0)
		mqtt.WARN = log.New(os.Stderr, "[WARN]  ", 0)
	}

	c.ctx = ctx

	c.opts = mqtt.NewClientOptions().
		AddBroker(c.brokerURL()).
		SetUsername(c.cfgClient.User).
		SetPassword(c.cfgClient.Password).
		SetOnConnectHandler(c.connectHandler).
		SetConnectionLostHandler(c.connectLostHandler).
		SetClientID(c.cfgClient.ClientID).
		SetOrderMatters(false).
		SetCleanSession(true).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetMaxReconnectInterval(5 * time.Second).
		SetKeepAlive(30 * time.Second)

	c.client = mqtt.NewClient(c.opts)

	if err := c.wait(c.client.Connect()); err != nil {
		return err
	}

	c.log.With(logger.Fields{"module": "mqtt"}).Infof("Status: %v", c.client.IsConnected())
	return nil
}

func (c *ClientMQTT) Stop() error {
	if c.client != nil && c.client.IsConnected() {
		c.client.Disconnect(500)
	}
	return nil
}

// Publish sends the frame as a retained JSON payload to <Topic>/<label>.
func (c *ClientMQTT) Publish(f preview.Frame) error {
	if c.client == nil {
		return errors.New("mqtt client is not started")
	}
	msg, err := json.Marshal(NewPayload(f))
	if err != nil {
		return fmt.Errorf("public topic. msg: %w", err)
	}
	topic := c.topic(f.Label)
	if err := c.wait(c.client.Publish(topic, c.cfgClient.Qos, true, msg)); err != nil {
		return fmt.Errorf("error publish topic %s: %w", topic, err)
	}
	c.log.With(logger.Fields{"module": "mqtt"}).Infof("published %s (%d channel(s))", topic, len(NewPayload(f)))
	return nil
}

// Run publishes every frame until frames is closed or the context ends.
func (c *ClientMQTT) Run(ctx context.Context, frames <-chan preview.Frame) {
	for {
		select {
		case <-ctx.Done():
			return
		case f, ok := <-frames:
			if !ok {
				return
			}
			if err := c.Publish(f); err != nil {
				c.log.With(logger.Fields{"module": "mqtt"}).Error(err)
			}
		}
	}
}

func (c *ClientMQTT) wait(token mqtt.Token) error {
	select {
	case <-token.Done():
		return token.Error()
	case <-c.ctx.Done():
		return errors.New("context canceled")
	}
}

func (c *ClientMQTT) brokerURL() string {
	schema := c.cfgClient.Schema
	if schema == "" {
		schema = "tcp"
	}
	return fmt.Sprintf("%s://%s:%s", schema, c.cfgClient.Host, c.cfgClient.Port)
}

func (c *ClientMQTT) topic(label string) string {
	return fmt.Sprintf("%s/%s", c.cfgClient.Topic, label)
}

func (c *ClientMQTT) connectHandler(_ mqtt.Client) {
	c.log.With(logger.Fields{"module": "mqtt"}).Info("client connected to server")
}

func (c *ClientMQTT) connectLostHandler(_ mqtt.Client, err error) {
	c.log.With(logger.Fields{"module": "mqtt"}).Errorf("server connect lost: %v", err)
}
