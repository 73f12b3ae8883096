package lambda

import "github.com/tidwall/gjson"

// DetectTrigger inspects a raw event and reports its trigger type using
// cheap field probes, without unmarshaling the full envelope. SQS batches
// carry Records with eventSource "aws:sqs"; API Gateway proxy events carry
// httpMethod and path at the top level.
func DetectTrigger(raw []byte) TriggerType {
	if gjson.GetBytes(raw, "Records.0.eventSource").String() == "aws:sqs" {
		return TriggerQueue
	}
	if gjson.GetBytes(raw, "httpMethod").Exists() || gjson.GetBytes(raw, "path").Exists() {
		return TriggerHTTP
	}
	return TriggerUnknown
}
