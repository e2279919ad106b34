package order

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	getByID      func(ctx context.Context, orderID string) (*Order, error)
	listByBuyer  func(ctx context.Context, buyerID string) ([]Order, error)
	listBySeller func(ctx context.Context, sellerID string) ([]Order, error)
	updateStatus func(ctx context.Context, orderID string, status Status) error
	addActivity  func(ctx context.Context, orderID, authorID, message string) (*Activity, error)
}

func (f *fakeRepo) CreateTx(ctx context.Context, tx *sql.Tx, o *Order) error {
	panic("not used")
}

func (f *fakeRepo) GetByID(ctx context.Context, orderID string) (*Order, error) {
	return f.getByID(ctx, orderID)
}

func (f *fakeRepo) ListByBuyer(ctx context.Context, buyerID string) ([]Order, error) {
	return f.listByBuyer(ctx, buyerID)
}

func (f *fakeRepo) ListBySeller(ctx context.Context, sellerID string) ([]Order, error) {
	return f.listBySeller(ctx, sellerID)
}

func (f *fakeRepo) UpdateStatus(ctx context.Context, orderID string, status Status) error {
	return f.updateStatus(ctx, orderID, status)
}

func (f *fakeRepo) AddActivity(ctx context.Context, orderID, authorID, message string) (*Activity, error) {
	return f.addActivity(ctx, orderID, authorID, message)
}

func testOrder(status Status) *Order {
	return &Order{
		ID:          "o1",
		BuyerID:     "buyer-1",
		Status:      status,
		TotalAmount: 20,
		Items: []Item{
			{ID: "i1", OrderID: "o1", ProductID: "p1", SellerID: "seller-1", Quantity: 2, UnitPrice: 10, Subtotal: 20},
		},
	}
}

func repoReturning(o *Order) *fakeRepo {
	return &fakeRepo{
		getByID: func(ctx context.Context, orderID string) (*Order, error) {
			if orderID != o.ID {
				return nil, ErrNotFound
			}
			return o, nil
		},
	}
}

func TestGetOrder_BuyerSeesOrder(t *testing.T) {
	svc := NewService(repoReturning(testOrder(StatusPending)))

	v, err := svc.GetOrder(context.Background(), "buyer-1", "o1")
	require.NoError(t, err)
	require.Equal(t, ViewerBuyer, v.ViewerContext)
	require.ElementsMatch(t, []Action{ActionCancel, ActionMessage}, v.AllowedActions)
}

func TestGetOrder_SellerSeesOrder(t *testing.T) {
	svc := NewService(repoReturning(testOrder(StatusPending)))

	v, err := svc.GetOrder(context.Background(), "seller-1", "o1")
	require.NoError(t, err)
	require.Equal(t, ViewerSeller, v.ViewerContext)
	require.ElementsMatch(t, []Action{ActionAccept, ActionCancel, ActionMessage}, v.AllowedActions)
}

func TestGetOrder_StrangerDenied(t *testing.T) {
	svc := NewService(repoReturning(testOrder(StatusPending)))

	_, err := svc.GetOrder(context.Background(), "someone-else", "o1")
	require.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetOrder_NotFound(t *testing.T) {
	svc := NewService(repoReturning(testOrder(StatusPending)))

	_, err := svc.GetOrder(context.Background(), "buyer-1", uuid.NewString())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListBuyerOrders_ViewerContextPerOrder(t *testing.T) {
	orders := []Order{*testOrder(StatusPending), *testOrder(StatusShipped)}
	repo := &fakeRepo{
		listByBuyer: func(ctx context.Context, buyerID string) ([]Order, error) {
			require.Equal(t, "buyer-1", buyerID)
			return orders, nil
		},
	}
	svc := NewService(repo)

	views, err := svc.ListBuyerOrders(context.Background(), "buyer-1")
	require.NoError(t, err)
	require.Len(t, views, 2)
	require.Equal(t, ViewerBuyer, views[0].ViewerContext)
	require.ElementsMatch(t, []Action{ActionConfirmDelivery, ActionMessage}, views[1].AllowedActions)
}

func TestListSales_Empty(t *testing.T) {
	repo := &fakeRepo{
		listBySeller: func(ctx context.Context, sellerID string) ([]Order, error) {
			return nil, nil
		},
	}
	svc := NewService(repo)

	views, err := svc.ListSales(context.Background(), "seller-1")
	require.NoError(t, err)
	require.NotNil(t, views)
	require.Empty(t, views)
}

func TestUpdateStatus_SellerAccepts(t *testing.T) {
	o := testOrder(StatusPending)
	repo := repoReturning(o)
	repo.updateStatus = func(ctx context.Context, orderID string, status Status) error {
		require.Equal(t, "o1", orderID)
		require.Equal(t, StatusAccepted, status)
		o.Status = StatusAccepted
		return nil
	}
	svc := NewService(repo)

	v, err := svc.UpdateStatus(context.Background(), "seller-1", "o1", StatusAccepted)
	require.NoError(t, err)
	require.Equal(t, StatusAccepted, v.Status)
	require.ElementsMatch(t, []Action{ActionShip, ActionMessage}, v.AllowedActions)
}

func TestUpdateStatus_BuyerCannotAccept(t *testing.T) {
	svc := NewService(repoReturning(testOrder(StatusPending)))

	_, err := svc.UpdateStatus(context.Background(), "buyer-1", "o1", StatusAccepted)
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateStatus_BuyerCancelsPending(t *testing.T) {
	o := testOrder(StatusPending)
	repo := repoReturning(o)
	repo.updateStatus = func(ctx context.Context, orderID string, status Status) error {
		o.Status = status
		return nil
	}
	svc := NewService(repo)

	v, err := svc.UpdateStatus(context.Background(), "buyer-1", "o1", StatusCancelled)
	require.NoError(t, err)
	require.Equal(t, StatusCancelled, v.Status)
	require.Empty(t, v.AllowedActions)
}

func TestUpdateStatus_SkippingStatesRejected(t *testing.T) {
	svc := NewService(repoReturning(testOrder(StatusPending)))

	_, err := svc.UpdateStatus(context.Background(), "seller-1", "o1", StatusShipped)
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateStatus_CancelAfterAcceptRejected(t *testing.T) {
	svc := NewService(repoReturning(testOrder(StatusAccepted)))

	_, err := svc.UpdateStatus(context.Background(), "buyer-1", "o1", StatusCancelled)
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateStatus_UnknownStatusRejected(t *testing.T) {
	svc := NewService(repoReturning(testOrder(StatusPending)))

	_, err := svc.UpdateStatus(context.Background(), "seller-1", "o1", Status("archived"))
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateStatus_StrangerDenied(t *testing.T) {
	svc := NewService(repoReturning(testOrder(StatusPending)))

	_, err := svc.UpdateStatus(context.Background(), "someone-else", "o1", StatusCancelled)
	require.ErrorIs(t, err, ErrAccessDenied)
}

func TestAddActivity_ParticipantPosts(t *testing.T) {
	o := testOrder(StatusAccepted)
	repo := repoReturning(o)
	repo.addActivity = func(ctx context.Context, orderID, authorID, message string) (*Activity, error) {
		require.Equal(t, "seller-1", authorID)
		o.Activities = append(o.Activities, Activity{ID: "a1", OrderID: orderID, AuthorID: authorID, Message: message})
		return &o.Activities[len(o.Activities)-1], nil
	}
	svc := NewService(repo)

	v, err := svc.AddActivity(context.Background(), "seller-1", "o1", "shipping tomorrow")
	require.NoError(t, err)
	require.Len(t, v.Activities, 1)
	require.Equal(t, "shipping tomorrow", v.Activities[0].Message)
}

func TestAddActivity_StrangerDenied(t *testing.T) {
	repo := repoReturning(testOrder(StatusAccepted))
	repo.addActivity = func(ctx context.Context, orderID, authorID, message string) (*Activity, error) {
		t.Fatal("activity must not be written for a non-participant")
		return nil, nil
	}
	svc := NewService(repo)

	_, err := svc.AddActivity(context.Background(), "someone-else", "o1", "hi")
	require.ErrorIs(t, err, ErrAccessDenied)
}
