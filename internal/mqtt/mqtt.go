package mqtt

import (
	"fmt"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
)

// DefaultTimeout bounds both the connect and the publish.
const DefaultTimeout = 5 * time.Second

// Options describes where a message goes.
type Options struct {
	Broker   string // e.g. tcp://localhost:1883
	ClientID string
	Topic    string
	Username string
	Password string
	QoS      byte
	Retain   bool
	Timeout  time.Duration // zero means DefaultTimeout
}

// Publish connects to the broker, publishes payload to opts.Topic and
// disconnects. Each call uses a fresh connection.
func Publish(opts Options, payload []byte) error {
	if opts.Topic == "" {
		return fmt.Errorf("mqtt: empty topic")
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	co := pahomqtt.NewClientOptions().
		AddBroker(opts.Broker).
		SetClientID(opts.ClientID).
		SetConnectTimeout(timeout).
		SetConnectRetry(false).
		SetAutoReconnect(false)

	if opts.Username != "" {
		co.SetUsername(opts.Username)
	}
	if opts.Password != "" {
		co.SetPassword(opts.Password)
	}

	client := pahomqtt.NewClient(co)
	tok := client.Connect()
	if !tok.WaitTimeout(timeout) {
		return fmt.Errorf("mqtt: connect timeout")
	}
	if tok.Error() != nil {
		return fmt.Errorf("mqtt: connect: %w", tok.Error())
	}
	defer client.Disconnect(250)

	pub := client.Publish(opts.Topic, opts.QoS, opts.Retain, payload)
	if !pub.WaitTimeout(timeout) {
		return fmt.Errorf("mqtt: publish timeout")
	}
	if pub.Error() != nil {
		return fmt.Errorf("mqtt: publish: %w", pub.Error())
	}
	return nil
}
