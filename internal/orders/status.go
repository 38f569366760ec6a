package orders

// Role of the actor requesting a transition. Authentication happens upstream;
// the state machine still re-checks the role before writing anything.
type Role string

const (
	RoleBuyer     Role = "buyer"
	RoleFarmer    Role = "farmer"
	RoleLogistics Role = "logistics"
	RoleAdmin     Role = "admin"
)

func ValidRole(r Role) bool {
	switch r {
	case RoleBuyer, RoleFarmer, RoleLogistics, RoleAdmin:
		return true
	}
	return false
}

type Actor struct {
	UserID int64
	Role   Role
}

// Status is the buyer/farmer-facing order lifecycle stage.
type Status string

const (
	StatusPlaced    Status = "placed"
	StatusAccepted  Status = "accepted"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

func (s Status) String() string { return string(s) }

func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// orderNext maps each legal transition to the roles allowed to request it.
var orderNext = map[Status]map[Status][]Role{
	StatusPlaced: {
		StatusAccepted:  {RoleFarmer},
		StatusCancelled: {RoleBuyer, RoleFarmer, RoleAdmin},
	},
	StatusAccepted: {
		StatusShipped:   {RoleFarmer, RoleLogistics},
		StatusCancelled: {RoleBuyer, RoleFarmer, RoleAdmin},
	},
	StatusShipped: {
		StatusDelivered: {RoleLogistics},
	},
	StatusDelivered: {},
	StatusCancelled: {},
}

func CanTransition(from, to Status) bool {
	_, ok := orderNext[from][to]
	return ok
}

func RoleMayTransition(from, to Status, r Role) bool {
	for _, allowed := range orderNext[from][to] {
		if allowed == r {
			return true
		}
	}
	return false
}

// LogisticsStatus is the carrier-facing delivery sub-lifecycle, recorded
// independently of the order status.
type LogisticsStatus string

const (
	LogisticsPicked         LogisticsStatus = "picked"
	LogisticsInTransit      LogisticsStatus = "in_transit"
	LogisticsOutForDelivery LogisticsStatus = "out_for_delivery"
	LogisticsDelivered      LogisticsStatus = "delivered"
	LogisticsFailed         LogisticsStatus = "failed"
	LogisticsReturned       LogisticsStatus = "returned"
)

func (s LogisticsStatus) String() string { return string(s) }

func (s LogisticsStatus) IsTerminal() bool {
	return s == LogisticsDelivered || s == LogisticsFailed || s == LogisticsReturned
}

func ValidLogisticsStatus(s LogisticsStatus) bool {
	switch s {
	case LogisticsPicked, LogisticsInTransit, LogisticsOutForDelivery,
		LogisticsDelivered, LogisticsFailed, LogisticsReturned:
		return true
	}
	return false
}

var logisticsNext = map[LogisticsStatus][]LogisticsStatus{
	LogisticsPicked:         {LogisticsInTransit, LogisticsFailed, LogisticsReturned},
	LogisticsInTransit:      {LogisticsOutForDelivery, LogisticsFailed, LogisticsReturned},
	LogisticsOutForDelivery: {LogisticsDelivered, LogisticsFailed, LogisticsReturned},
	LogisticsDelivered:      {},
	LogisticsFailed:         {},
	LogisticsReturned:       {},
}

func CanTransitionLogistics(from, to LogisticsStatus) bool {
	for _, n := range logisticsNext[from] {
		if n == to {
			return true
		}
	}
	return false
}

// Only carriers and admins may touch the logistics record.
func RoleMayUpdateLogistics(r Role) bool {
	return r == RoleLogistics || r == RoleAdmin
}
