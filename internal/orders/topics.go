package orders

import "strconv"

const (
	TopicOrderPlaced      = "order.placed"
	TopicOrderStatus      = "order.status_changed"
	TopicLogisticsUpdated = "order.logistics_updated"
)

// Partition key = order id, so all events of one order stay ordered.
func PartitionKey(orderID int64) []byte {
	return []byte(strconv.FormatInt(orderID, 10))
}
