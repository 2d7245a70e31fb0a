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
	"testing"
	"time"
)

// testMessage is a canned inbound MQTT message.
type testMessage struct {
	payload []byte
}

func (m *testMessage) Duplicate() bool   { return false }
func (m *testMessage) Qos() byte         { return 0 }
func (m *testMessage) Retained() bool    { return false }
func (m *testMessage) Topic() string     { return "freight/ops" }
func (m *testMessage) MessageID() uint16 { return 0 }
func (m *testMessage) Payload() []byte   { return m.payload }
func (m *testMessage) Ack()              {}

func TestMQTTInHandler(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := &MQTTCouplings{
		InTimeout: time.Second,
		in:        make(chan *Op),
	}
	c.ctx = ctx

	got := make(chan *Op, 1)
	go func() {
		got <- <-c.in
	}()

	// The handler must forward the op as long as the couplings are
	// running, which the live context given to Start represents.
	c.inHandler(nil, &testMessage{
		payload: []byte(`{"op":"run","id":"homer","source":"[start][exit]"}`),
	})

	select {
	case op := <-got:
		if op.Id != "homer" {
			t.Fatal(op.Id)
		}
	case <-time.After(time.Second):
		t.Fatal("op not forwarded")
	}
}

func TestMQTTInHandlerStalled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := &MQTTCouplings{
		InTimeout: 10 * time.Millisecond,
		in:        make(chan *Op),
	}
	c.ctx = ctx

	// Nothing is receiving, so the handler gives up after InTimeout
	// instead of blocking the subscriber forever.
	c.inHandler(nil, &testMessage{
		payload: []byte(`{"op":"run","id":"homer","source":"[start][exit]"}`),
	})
}

func TestMQTTParseTopic(t *testing.T) {
	topic, qos := parseTopic("freight/ops:1")
	if topic != "freight/ops" || qos != 1 {
		t.Fatalf("%s %d", topic, qos)
	}

	topic, qos = parseTopic("freight/ops")
	if topic != "freight/ops" || qos != 0 {
		t.Fatalf("%s %d", topic, qos)
	}
}
