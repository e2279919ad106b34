package order

// ViewerContext is the relationship between the requesting identity and an
// order. A user can be both buyer and a seller on the same order, so the
// context is always computed from the order's rows, never assumed.
type ViewerContext string

const (
	ViewerBuyer          ViewerContext = "buyer"
	ViewerSeller         ViewerContext = "seller"
	ViewerBuyerAndSeller ViewerContext = "buyer_and_seller"
)

type Action string

const (
	ActionCancel          Action = "cancel"
	ActionAccept          Action = "accept"
	ActionShip            Action = "ship"
	ActionConfirmDelivery Action = "confirm_delivery"
	ActionMessage         Action = "message"
)

// ContextFor computes the viewer context for userID on o, or false when the
// user has no relation to the order at all.
func ContextFor(o *Order, userID string) (ViewerContext, bool) {
	isBuyer := o.BuyerID == userID
	isSeller := false
	for _, it := range o.Items {
		if it.SellerID == userID {
			isSeller = true
			break
		}
	}

	switch {
	case isBuyer && isSeller:
		return ViewerBuyerAndSeller, true
	case isBuyer:
		return ViewerBuyer, true
	case isSeller:
		return ViewerSeller, true
	}
	return "", false
}

var buyerActions = map[Status][]Action{
	StatusPending:   {ActionCancel, ActionMessage},
	StatusAccepted:  {ActionMessage},
	StatusShipped:   {ActionConfirmDelivery, ActionMessage},
	StatusCompleted: {ActionMessage},
	StatusCancelled: {},
}

var sellerActions = map[Status][]Action{
	StatusPending:   {ActionAccept, ActionCancel, ActionMessage},
	StatusAccepted:  {ActionShip, ActionMessage},
	StatusShipped:   {ActionMessage},
	StatusCompleted: {ActionMessage},
	StatusCancelled: {},
}

// AllowedActions returns the actions permitted for a viewer context at a given
// status. Total over all inputs: unknown combinations yield an empty list.
func AllowedActions(vc ViewerContext, status Status) []Action {
	switch vc {
	case ViewerBuyer:
		return actionsOrEmpty(buyerActions, status)
	case ViewerSeller:
		return actionsOrEmpty(sellerActions, status)
	case ViewerBuyerAndSeller:
		return mergeActions(actionsOrEmpty(buyerActions, status), actionsOrEmpty(sellerActions, status))
	}
	return []Action{}
}

func actionsOrEmpty(table map[Status][]Action, status Status) []Action {
	if acts, ok := table[status]; ok {
		out := make([]Action, len(acts))
		copy(out, acts)
		return out
	}
	return []Action{}
}

func mergeActions(a, b []Action) []Action {
	seen := make(map[Action]bool, len(a)+len(b))
	out := make([]Action, 0, len(a)+len(b))
	for _, act := range a {
		if !seen[act] {
			seen[act] = true
			out = append(out, act)
		}
	}
	for _, act := range b {
		if !seen[act] {
			seen[act] = true
			out = append(out, act)
		}
	}
	return out
}

// transitionAction maps a requested status change to the action that authorizes it.
func transitionAction(from, to Status) (Action, bool) {
	switch {
	case from == StatusPending && to == StatusAccepted:
		return ActionAccept, true
	case from == StatusPending && to == StatusCancelled:
		return ActionCancel, true
	case from == StatusAccepted && to == StatusShipped:
		return ActionShip, true
	case from == StatusShipped && to == StatusCompleted:
		return ActionConfirmDelivery, true
	}
	return "", false
}

func containsAction(acts []Action, want Action) bool {
	for _, a := range acts {
		if a == want {
			return true
		}
	}
	return false
}
