// Package influxdb provides InfluxDB v2 connectivity for study analytics.
//
// Two measurements are written:
//
//	quiz_scores     tag user_id; fields percentage, title
//	study_activity  tags user_id, action; field count
//
// Writes are non-blocking and batched according to config.yaml
// (batch_size, flush_interval). Asynchronous write failures are logged.
// The integration is optional: when disabled, Connect returns ErrDisabled
// and callers skip analytics.
//
// # Usage
//
//	client, err := influxdb.Connect(ctx, cfg.InfluxDB, log)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	client.WriteQuizScore(userID, "Chapter 1", 80, time.Now())
package influxdb
