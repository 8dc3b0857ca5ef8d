package kafka

import (
	"github.com/cespare/xxhash/v2"
	"github.com/segmentio/kafka-go"
)

// keyBalancer picks the partition by hashing the message key with
// xxhash. The mapping depends only on the key and the partition count,
// so every producer using this balancer sends the same entity to the
// same partition — the property the ordering guarantee rests on.
type keyBalancer struct{}

func (keyBalancer) Balance(msg kafka.Message, partitions ...int) int {
	if len(partitions) == 0 {
		return 0
	}
	if len(msg.Key) == 0 {
		return partitions[0]
	}
	return partitions[int(xxhash.Sum64(msg.Key)%uint64(len(partitions)))]
}
