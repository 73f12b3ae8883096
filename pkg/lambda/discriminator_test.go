package lambda

import "testing"

func TestDetectTrigger(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want TriggerType
	}{
		{
			name: "api gateway event",
			raw:  `{"httpMethod":"GET","path":"/health","headers":{}}`,
			want: TriggerHTTP,
		},
		{
			name: "sqs batch",
			raw:  `{"Records":[{"eventSource":"aws:sqs","body":"{}","eventSourceARN":"arn:aws:sqs:us-east-1:1:q"}]}`,
			want: TriggerQueue,
		},
		{
			name: "path only",
			raw:  `{"path":"/user/login/"}`,
			want: TriggerHTTP,
		},
		{
			name: "unknown envelope",
			raw:  `{"detail-type":"something else"}`,
			want: TriggerUnknown,
		},
		{
			name: "not json",
			raw:  `garbage`,
			want: TriggerUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectTrigger([]byte(tt.raw)); got != tt.want {
				t.Errorf("DetectTrigger() = %v, want %v", got, tt.want)
			}
		})
	}
}
