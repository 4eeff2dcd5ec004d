// Package mqtt provides MQTT client connectivity for the study-aid core.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Publishing change events after user, reviewer and quiz writes
//   - Command subscriptions (remote export requests)
//   - Last Will and Testament (LWT) for offline detection
//
// # Topics
//
//	studyaid/events/{kind}      change events (JSON Event), not retained
//	studyaid/command/{name}     commands to the core
//	studyaid/system/status      retained online/offline status
//
// # Security Considerations
//
//   - Enable TLS (cfg.Broker.TLS=true) when the broker is not on localhost
//   - Event payloads never carry passwords or reviewer content
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT, log)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	err = client.OnCommand(mqtt.CommandExport, func([]byte) error { ... })
//	err = client.PublishEvent(mqtt.EventReviewerSaved, mqtt.Event{UserID: 1, ID: 7})
package mqtt
