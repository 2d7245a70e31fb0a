/* Copyright 2024 The Freight Authors
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// MQTTCouplings subscribes to a topic for ops and publishes results.
type MQTTCouplings struct {
	Client        mqtt.Client
	Quiesce       uint
	SubTopics     string
	OutboundTopic string

	InTimeout time.Duration

	// ctx is set by Start and governs inHandler forwarding.  Messages
	// only arrive after Start subscribes.
	ctx context.Context

	in   chan *Op
	out  chan *Result
	done chan bool
}

func NewMQTTCouplings(args []string) (*MQTTCouplings, *flag.FlagSet) {
	var (
		// Follow mosquitto_sub command line args.

		fs = flag.NewFlagSet("mq", flag.ExitOnError)

		broker    = fs.String("h", "tcp://localhost", "Broker hostname")
		clientId  = fs.String("i", "", "Client id")
		port      = fs.Int("p", 1883, "Broker port")
		keepAlive = fs.Int("k", 10, "Keep-alive in seconds")
		userName  = fs.String("u", "", "Username")
		password  = fs.String("P", "", "Password")
		reconnect = fs.Bool("reconnect", false, "Automatically attempt to reconnect")
		clean     = fs.Bool("c", true, "Clean session")
		quiesce   = fs.Int("quiesce", 100, "Disconnection quiescence (in milliseconds)")

		certFilename = fs.String("cert", "", "Optional cert filename")
		keyFilename  = fs.String("key", "", "Optional key filename")
		insecure     = fs.Bool("insecure", false, "Skip broker cert checking")

		subTopics     = fs.String("t", "freight/ops", "subscription topic(s)")
		outboundTopic = fs.String("out-topic", "freight/results", "Out-bound result topic")
		inTimeout     = fs.Duration("in-timeout", time.Second, "timeout for in-bound queuing")
	)

	if args == nil {
		return nil, fs
	}

	fs.Parse(args)

	mqtt.ERROR = log.New(os.Stderr, "mqtt.error", 0)

	opts := mqtt.NewClientOptions()

	*broker = fmt.Sprintf("%s:%d", *broker, *port)
	opts.AddBroker(*broker)
	opts.SetClientID(*clientId)
	opts.SetKeepAlive(time.Second * time.Duration(*keepAlive))

	opts.Username = *userName
	opts.Password = *password
	opts.AutoReconnect = *reconnect
	opts.CleanSession = *clean

	var certs []tls.Certificate
	if *keyFilename != "" {
		cert, err := tls.LoadX509KeyPair(*certFilename, *keyFilename)
		if err != nil {
			log.Fatal(err)
		}
		certs = []tls.Certificate{cert}
	}

	tlsConf := &tls.Config{
		InsecureSkipVerify: *insecure,
	}
	if certs != nil {
		tlsConf.Certificates = certs
	}
	opts.SetTLSConfig(tlsConf)

	opts.OnConnectionLost = func(client mqtt.Client, err error) {
		log.Printf("MQTT connection lost")
	}

	io := &MQTTCouplings{
		Quiesce:       uint(*quiesce),
		SubTopics:     *subTopics,
		OutboundTopic: *outboundTopic,
		InTimeout:     *inTimeout,

		in:   make(chan *Op),
		out:  make(chan *Result),
		done: make(chan bool),
	}

	opts.DefaultPublishHandler = func(client mqtt.Client, msg mqtt.Message) {
		io.inHandler(client, msg)
	}

	io.Client = mqtt.NewClient(opts)

	return io, fs
}

// inHandler is a Paho publish handler, which is used to handle
// messages sent to us from the MQTT broker due to our subscriptions.
func (c *MQTTCouplings) inHandler(client mqtt.Client, msg mqtt.Message) {
	log.Printf("incoming: %s %s\n", msg.Topic(), msg.Payload())

	var op Op
	if err := json.Unmarshal(msg.Payload(), &op); err != nil {
		log.Printf("Couldn't JSON-parse payload: %s", msg.Payload())
		return
	}

	to := time.NewTimer(c.InTimeout)

	select {
	case <-c.ctx.Done():
		log.Printf("Subscriber not forwarding due to ctx.Done()")
	case c.in <- &op:
	case <-to.C:
		log.Printf("Subscriber not forwarding due to stall")
	}
}

// Start creates the MQTT session and launches the publisher of
// outbound results.
func (c *MQTTCouplings) Start(ctx context.Context) error {
	c.ctx = ctx

	log.Printf("Attempting to connect to broker")
	if token := c.Client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("Connected to broker")

	for _, topic := range strings.Split(c.SubTopics, ",") {
		topic, qos := parseTopic(topic)
		if topic == "" {
			continue
		}
		log.Printf("Subscribing to %s (%d)", topic, qos)
		if t := c.Client.Subscribe(topic, qos, nil); t.Wait() && t.Error() != nil {
			return t.Error()
		}
	}

	go c.outLoop(ctx)

	log.Printf("Couplings started")

	return nil
}

// outLoop publishes results to the outbound topic.
func (c *MQTTCouplings) outLoop(ctx context.Context) {
	topic, qos := parseTopic(c.OutboundTopic)
	for {
		select {
		case <-ctx.Done():
			return
		case r := <-c.out:
			js, err := json.Marshal(r)
			if err != nil {
				log.Printf("Failed to marshal %#v", r)
				continue
			}
			token := c.Client.Publish(topic, qos, false, js)
			token.Wait()
			if token.Error() != nil {
				log.Printf("Publish error: %s", token.Error())
			}
		}
	}
}

// IO just returns the channels that NewMQTTCouplings initialized.
func (c *MQTTCouplings) IO(ctx context.Context) (chan *Op, chan *Result, chan bool, error) {
	return c.in, c.out, c.done, nil
}

// Stop terminates the MQTT session.
func (c *MQTTCouplings) Stop(ctx context.Context) error {
	log.Printf("Disconnecting")
	c.Client.Disconnect(c.Quiesce)
	close(c.done)
	return nil
}

// parseTopic can extract QoS from a topic name of the form TOPIC:QOS.
func parseTopic(s string) (string, byte) {
	var topic string
	var qos byte
	if _, err := fmt.Sscanf(strings.Replace(s, ":", " ", 1), "%s %d", &topic, &qos); err == nil {
		return topic, qos
	}
	return s, 0
}
