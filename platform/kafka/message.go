package kafka

import "time"

type Header struct {
	Key   string
	Value []byte
}

// Message is the transport-neutral view of a consumed record.
type Message struct {
	Headers        map[string][]byte
	Timestamp      time.Time
	BlockTimestamp time.Time

	Key       []byte
	Value     []byte
	Topic     string
	Partition int32
	Offset    int64
}

func (m Message) Header(key string) (string, bool) {
	v, ok := m.Headers[key]
	if !ok {
		return "", false
	}
	return string(v), true
}
