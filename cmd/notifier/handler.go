package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/lomoval/otus-golang/eventrsvp/internal/app"
	log "github.com/sirupsen/logrus"
	"github.com/streadway/amqp"
	"github.com/valyala/fastjson"
)

var errBadNotification = errors.New("bad notification")

func handle(msg amqp.Delivery) {
	n, err := decode(msg.Body)
	if err != nil {
		log.Errorf("failed to parse notification: %v", err)
		return
	}
	log.WithField("action", n.Action).WithField("userId", n.UserID).WithField("eventId", n.EventID).
		WithField("time", n.Time).Info("rsvp changed")
}

func decode(body []byte) (app.Notification, error) {
	n := app.Notification{}
	var p fastjson.Parser
	v, err := p.ParseBytes(body)
	if err != nil {
		return n, fmt.Errorf("%w: %v", errBadNotification, err)
	}

	n.Action = string(v.GetStringBytes("action"))
	switch n.Action {
	case app.ActionRSVPAdded, app.ActionRSVPRemoved:
	default:
		return n, fmt.Errorf("%w: unknown action %q", errBadNotification, n.Action)
	}

	if n.UserID, err = int64Field(v, "userId"); err != nil {
		return n, err
	}
	if n.EventID, err = int64Field(v, "eventId"); err != nil {
		return n, err
	}
	if raw := v.GetStringBytes("time"); raw != nil {
		if n.Time, err = time.Parse(time.RFC3339Nano, string(raw)); err != nil {
			return n, fmt.Errorf("%w: time: %v", errBadNotification, err)
		}
	}
	return n, nil
}

func int64Field(v *fastjson.Value, key string) (int64, error) {
	field := v.Get(key)
	if field == nil {
		return 0, fmt.Errorf("%w: %s is missing", errBadNotification, key)
	}
	id, err := field.Int64()
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", errBadNotification, key, err)
	}
	return id, nil
}
