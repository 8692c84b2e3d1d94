package consumers

import (
	"context"
	"time"

	"github.com/lvaman/genealogy/change-listener/shared"
	"github.com/lvaman/genealogy/common/log"
	"github.com/lvaman/genealogy/common/messaging"

	"github.com/pkg/errors"
)

type Consumer struct {
	Config        *shared.AppConfig `inject:""`
	Logger        *log.Logger       `inject:""`
	PubSubClient  *messaging.Client `inject:""`
	EventHandlers []interface {
		CanHandle(event messaging.ChangeEvent) bool
		Handle(ctx context.Context, event messaging.ChangeEvent) error
		Name() string
	}
}

func (c *Consumer) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
			c.Logger.Info(ctx, "starting consumer")
			if err := c.subscribe(ctx); err != nil {
				c.Logger.Warn(ctx, "consumer stopped", "err", err.Error())
				time.Sleep(time.Second)
			}
		}
	}
}

func (c *Consumer) subscribe(ctx context.Context) error {
	callback := func(ctx context.Context, msg messaging.Message) {
		msg.Ack()

		event, err := messaging.ParseChangeEvent(msg)
		if err != nil {
			c.Logger.Err(ctx, "failed to parse the change event", "err", err.Error(), "messageId", msg.ID)
			return
		}

		for _, eventHandler := range c.EventHandlers {
			if eventHandler.CanHandle(event) {
				if err := eventHandler.Handle(ctx, event); err != nil {
					c.Logger.Err(ctx, "failed to handle message", "err", err.Error(), "messageId", msg.ID, "handler", eventHandler.Name())
				} else {
					c.Logger.Info(ctx, "message handled", "messageId", msg.ID, "handler", eventHandler.Name())
				}
				return
			}
		}
		c.Logger.Warn(ctx, "no handlers were able to consume this message", "messageId", msg.ID, "kind", event.Kind)
	}
	if err := c.PubSubClient.Subscribe(ctx, callback); err != nil {
		return errors.Wrap(err, "failed to subscribe to the messaging system")
	}
	return nil
}
