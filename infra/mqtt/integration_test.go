package mqtt

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/portlink/streetturn/core/matching"
	"github.com/portlink/streetturn/core/notify"
	"github.com/portlink/streetturn/test/util"
)

func TestNotifier_Mosquitto(t *testing.T) {
	if testing.Short() {
		t.Skip("integration test")
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	broker, cleanup, err := util.StartMosquitto(ctx)
	if err != nil {
		t.Skipf("unable to start mosquitto: %v", err)
	}
	defer cleanup()

	got := make(chan notify.Message, 1)
	sub := paho.NewClient(paho.NewClientOptions().AddBroker(broker).SetClientID("dispatcher-ui"))
	if tok := sub.Connect(); tok.Wait() && tok.Error() != nil {
		t.Fatalf("subscriber connect: %v", tok.Error())
	}
	defer sub.Disconnect(100)
	tok := sub.Subscribe("streetturn/+/suggestions", 1, func(_ paho.Client, m paho.Message) {
		var msg notify.Message
		if err := json.Unmarshal(m.Payload(), &msg); err == nil {
			got <- msg
		}
	})
	if tok.Wait() && tok.Error() != nil {
		t.Fatalf("subscribe: %v", tok.Error())
	}

	n, err := NewNotifier(Config{Broker: broker, QoS: 1})
	if err != nil {
		t.Fatalf("notifier: %v", err)
	}
	defer n.Close()
	if err := n.Notify(ctx, matching.Run{ID: "r1", OrgID: "org1"}); err != nil {
		t.Fatalf("notify: %v", err)
	}
	select {
	case msg := <-got:
		if msg.RunID != "r1" || msg.OrgID != "org1" {
			t.Fatalf("unexpected message %+v", msg)
		}
	case <-ctx.Done():
		t.Fatal("message not received")
	}
}
