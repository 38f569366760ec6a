package orders

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOrderTransitions(t *testing.T) {
	cases := []struct {
		from, to Status
		legal    bool
	}{
		{StatusPlaced, StatusAccepted, true},
		{StatusPlaced, StatusCancelled, true},
		{StatusAccepted, StatusShipped, true},
		{StatusAccepted, StatusCancelled, true},
		{StatusShipped, StatusDelivered, true},

		// no skipping states
		{StatusPlaced, StatusShipped, false},
		{StatusPlaced, StatusDelivered, false},
		{StatusAccepted, StatusDelivered, false},

		// terminals reject everything
		{StatusDelivered, StatusPlaced, false},
		{StatusDelivered, StatusAccepted, false},
		{StatusDelivered, StatusShipped, false},
		{StatusDelivered, StatusCancelled, false},
		{StatusCancelled, StatusPlaced, false},
		{StatusCancelled, StatusAccepted, false},
		{StatusCancelled, StatusDelivered, false},

		// no self-loops, no going backwards
		{StatusAccepted, StatusAccepted, false},
		{StatusShipped, StatusAccepted, false},
		{StatusShipped, StatusCancelled, false},
	}
	for _, c := range cases {
		require.Equal(t, c.legal, CanTransition(c.from, c.to), "%s -> %s", c.from, c.to)
	}
}

func TestOrderTransitionRoles(t *testing.T) {
	require.True(t, RoleMayTransition(StatusPlaced, StatusAccepted, RoleFarmer))
	require.False(t, RoleMayTransition(StatusPlaced, StatusAccepted, RoleBuyer))
	require.False(t, RoleMayTransition(StatusPlaced, StatusAccepted, RoleAdmin))

	for _, r := range []Role{RoleBuyer, RoleFarmer, RoleAdmin} {
		require.True(t, RoleMayTransition(StatusPlaced, StatusCancelled, r), r)
		require.True(t, RoleMayTransition(StatusAccepted, StatusCancelled, r), r)
	}
	require.False(t, RoleMayTransition(StatusPlaced, StatusCancelled, RoleLogistics))

	require.True(t, RoleMayTransition(StatusAccepted, StatusShipped, RoleFarmer))
	require.True(t, RoleMayTransition(StatusAccepted, StatusShipped, RoleLogistics))
	require.True(t, RoleMayTransition(StatusShipped, StatusDelivered, RoleLogistics))
	require.False(t, RoleMayTransition(StatusShipped, StatusDelivered, RoleFarmer))
}

func TestOrderTerminalStates(t *testing.T) {
	require.True(t, StatusDelivered.IsTerminal())
	require.True(t, StatusCancelled.IsTerminal())
	require.False(t, StatusPlaced.IsTerminal())
	require.False(t, StatusAccepted.IsTerminal())
	require.False(t, StatusShipped.IsTerminal())
}

func TestLogisticsTransitions(t *testing.T) {
	require.True(t, CanTransitionLogistics(LogisticsPicked, LogisticsInTransit))
	require.True(t, CanTransitionLogistics(LogisticsInTransit, LogisticsOutForDelivery))
	require.True(t, CanTransitionLogistics(LogisticsOutForDelivery, LogisticsDelivered))

	// failed and returned reachable from any non-terminal state
	for _, from := range []LogisticsStatus{LogisticsPicked, LogisticsInTransit, LogisticsOutForDelivery} {
		require.True(t, CanTransitionLogistics(from, LogisticsFailed), from)
		require.True(t, CanTransitionLogistics(from, LogisticsReturned), from)
	}

	// no skipping, no leaving terminals
	require.False(t, CanTransitionLogistics(LogisticsPicked, LogisticsDelivered))
	require.False(t, CanTransitionLogistics(LogisticsPicked, LogisticsOutForDelivery))
	require.False(t, CanTransitionLogistics(LogisticsDelivered, LogisticsInTransit))
	require.False(t, CanTransitionLogistics(LogisticsFailed, LogisticsPicked))
	require.False(t, CanTransitionLogistics(LogisticsReturned, LogisticsInTransit))
}

func TestLogisticsRoleGate(t *testing.T) {
	require.True(t, RoleMayUpdateLogistics(RoleLogistics))
	require.True(t, RoleMayUpdateLogistics(RoleAdmin))
	require.False(t, RoleMayUpdateLogistics(RoleBuyer))
	require.False(t, RoleMayUpdateLogistics(RoleFarmer))
}

func TestValidRole(t *testing.T) {
	require.True(t, ValidRole(RoleBuyer))
	require.False(t, ValidRole(Role("ops")))
}

func TestValidLogisticsStatus(t *testing.T) {
	require.True(t, ValidLogisticsStatus(LogisticsPicked))
	require.False(t, ValidLogisticsStatus(LogisticsStatus("teleported")))
}
