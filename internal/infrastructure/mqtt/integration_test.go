//go:build integration

package mqtt

import (
	"encoding/json"
	"testing"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
)

// Integration tests against a real broker at 127.0.0.1:1883.
//
// Run with:
//   go test -tags=integration -v ./internal/infrastructure/mqtt/...

func connectForTest(t *testing.T, clientID string) *Client {
	t.Helper()
	cfg := testConfig()
	cfg.Broker.ClientID = clientID

	client, err := Connect(cfg, nil)
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	t.Cleanup(func() { client.Close() }) //nolint:errcheck // Test cleanup
	return client
}

// peer connects a plain paho client standing in for the app frontend.
func peer(t *testing.T, clientID string) pahomqtt.Client {
	t.Helper()
	opts := pahomqtt.NewClientOptions().
		AddBroker(brokerURL(testConfig().Broker)).
		SetClientID(clientID)
	c := pahomqtt.NewClient(opts)
	if token := c.Connect(); !token.WaitTimeout(5*time.Second) || token.Error() != nil {
		t.Fatalf("peer connect: %v", token.Error())
	}
	t.Cleanup(func() { c.Disconnect(250) })
	return c
}

func TestIntegration_Connect(t *testing.T) {
	client := connectForTest(t, "studyaid-int-connect")

	if !client.Online() {
		t.Error("Online() = false, want true")
	}
}

func TestIntegration_EventReachesSubscriber(t *testing.T) {
	core := connectForTest(t, "studyaid-int-core")
	app := peer(t, "studyaid-int-app")

	received := make(chan Event, 1)
	token := app.Subscribe(TopicPrefixEvents+"/#", 1, func(_ pahomqtt.Client, msg pahomqtt.Message) {
		var ev Event
		if json.Unmarshal(msg.Payload(), &ev) == nil {
			select {
			case received <- ev:
			default:
			}
		}
	})
	if !token.WaitTimeout(5*time.Second) || token.Error() != nil {
		t.Fatalf("peer subscribe: %v", token.Error())
	}

	if err := core.PublishEvent(EventQuizRecorded, Event{ID: 5, UserID: 2}); err != nil {
		t.Fatalf("PublishEvent() error = %v", err)
	}

	select {
	case ev := <-received:
		if ev.Kind != EventQuizRecorded || ev.ID != 5 || ev.UserID != 2 {
			t.Errorf("received %+v", ev)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for event")
	}
}

func TestIntegration_CommandRunsHandler(t *testing.T) {
	core := connectForTest(t, "studyaid-int-cmd-core")
	app := peer(t, "studyaid-int-cmd-app")

	ran := make(chan []byte, 1)
	err := core.OnCommand(CommandExport, func(p []byte) error {
		ran <- p
		return nil
	})
	if err != nil {
		t.Fatalf("OnCommand() error = %v", err)
	}

	app.Publish(Topics{}.Command(CommandExport), 1, false, []byte(`{}`)).WaitTimeout(5 * time.Second)

	select {
	case p := <-ran:
		if string(p) != "{}" {
			t.Errorf("payload = %q", p)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("command handler did not run")
	}
}
