package idgen

import (
	"strconv"
	"sync"

	"github.com/bwmarrin/snowflake"
)

var (
	node *snowflake.Node
	once sync.Once
)

// Init sets the node number. It must run before the first ID is generated;
// later calls are ignored.
func Init(nodeID int64) error {
	var err error
	once.Do(func() {
		node, err = snowflake.NewNode(nodeID)
	})
	return err
}

func GenerateID() int64 {
	once.Do(func() {
		node, _ = snowflake.NewNode(1)
	})
	return node.Generate().Int64()
}

// GenerateString returns a new ID in decimal form, used for session IDs.
func GenerateString() string {
	return strconv.FormatInt(GenerateID(), 10)
}
