package orders

import (
	"fmt"
	"math/rand"
	"time"
)

// NewOrderNumber generates the externally visible order number:
// ORD + unix millis + 3 random digits. The uniqueness backstop is the
// order_number UNIQUE constraint.
func NewOrderNumber() string {
	return fmt.Sprintf("ORD%d%03d", time.Now().UnixMilli(), rand.Intn(1000))
}
