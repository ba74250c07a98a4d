package orderrouter

import (
	"testing"
	"time"

	"github.com/quickfixgo/quickfix"
	"github.com/quickfixgo/tag"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	fixv1mock "github.com/quantclip/fix-brokerage/internal/domain/fix/v1/mock"
	orderv1 "github.com/quantclip/fix-brokerage/internal/domain/order/v1"
	"github.com/quantclip/fix-brokerage/internal/pkg/symbols"
	"github.com/quantclip/fix-brokerage/pkg/logger"
)

type testFixture struct {
	ctrl   *gomock.Controller
	sender *fixv1mock.MockSender
	router *Router
}

func setupTestFixture(t *testing.T) *testFixture {
	ctrl := gomock.NewController(t)

	log, err := logger.NewLogger()
	require.NoError(t, err)

	sender := fixv1mock.NewMockSender(ctrl)
	return &testFixture{
		ctrl:   ctrl,
		sender: sender,
		router: New(sender, symbols.NewMapper("XETR"), "ACC-1", "DESK-7", log),
	}
}

func limitOrder() *orderv1.Order {
	return &orderv1.Order{
		ID:          42,
		Symbol:      "BAYN",
		ISIN:        "DE000BAY0017",
		Currency:    "EUR",
		Side:        orderv1.SideBuy,
		Type:        orderv1.TypeLimit,
		Quantity:    decimal.NewFromInt(100),
		LimitPrice:  decimal.NewFromFloat(50.25),
		TimeInForce: orderv1.TimeInForceDay,
	}
}

func bodyString(t *testing.T, msg quickfix.Messagable, fieldTag quickfix.Tag) string {
	t.Helper()
	value, err := msg.ToMessage().Body.GetString(fieldTag)
	require.NoError(t, err)
	return value
}

func TestRouter_PlaceOrder_BuildsNewOrderSingle(t *testing.T) {
	f := setupTestFixture(t)
	defer f.ctrl.Finish()

	order := limitOrder()
	var sent quickfix.Messagable
	f.sender.EXPECT().Send(gomock.Any()).DoAndReturn(func(msg quickfix.Messagable) bool {
		sent = msg
		return true
	})

	require.True(t, f.router.PlaceOrder(order))
	require.NotNil(t, sent)

	assert.Equal(t, "BAYN", bodyString(t, sent, tag.Symbol))
	assert.Equal(t, "DE000BAY0017", bodyString(t, sent, tag.SecurityID))
	assert.Equal(t, "4", bodyString(t, sent, tag.IDSource))
	assert.Equal(t, "1", bodyString(t, sent, tag.Side))
	assert.Equal(t, "2", bodyString(t, sent, tag.OrdType))
	assert.Equal(t, "100", bodyString(t, sent, tag.OrderQty))
	assert.Equal(t, "50.25", bodyString(t, sent, tag.Price))
	assert.Equal(t, "0", bodyString(t, sent, tag.TimeInForce))
	assert.Equal(t, "XETR", bodyString(t, sent, tag.ExDestination))
	assert.Equal(t, "EUR", bodyString(t, sent, tag.Currency))
	assert.Equal(t, "ACC-1", bodyString(t, sent, tag.Account))

	onBehalf, err := sent.ToMessage().Header.GetString(tag.OnBehalfOfCompID)
	require.NoError(t, err)
	assert.Equal(t, "DESK-7", onBehalf)

	// the generated ClOrdID was recorded on the order before sending
	brokerID, ok := order.PrimaryBrokerID()
	require.True(t, ok)
	assert.Equal(t, brokerID, bodyString(t, sent, tag.ClOrdID))
	assert.Len(t, brokerID, 32)
}

func TestRouter_PlaceOrder_BrokerIDVisibleDuringSend(t *testing.T) {
	f := setupTestFixture(t)
	defer f.ctrl.Finish()

	order := limitOrder()
	f.sender.EXPECT().Send(gomock.Any()).DoAndReturn(func(msg quickfix.Messagable) bool {
		_, ok := order.PrimaryBrokerID()
		assert.True(t, ok)
		return true
	})

	require.True(t, f.router.PlaceOrder(order))
}

func TestRouter_PlaceOrder_StopLimitCarriesBothPrices(t *testing.T) {
	f := setupTestFixture(t)
	defer f.ctrl.Finish()

	order := limitOrder()
	order.Type = orderv1.TypeStopLimit
	order.StopPrice = decimal.NewFromFloat(48.5)

	var sent quickfix.Messagable
	f.sender.EXPECT().Send(gomock.Any()).DoAndReturn(func(msg quickfix.Messagable) bool {
		sent = msg
		return true
	})

	require.True(t, f.router.PlaceOrder(order))
	assert.Equal(t, "4", bodyString(t, sent, tag.OrdType))
	assert.Equal(t, "50.25", bodyString(t, sent, tag.Price))
	assert.Equal(t, "48.50", bodyString(t, sent, tag.StopPx))
}

func TestRouter_PlaceOrder_GoodTilCanceledStopDowngradesToDay(t *testing.T) {
	f := setupTestFixture(t)
	defer f.ctrl.Finish()

	order := limitOrder()
	order.Type = orderv1.TypeStopMarket
	order.StopPrice = decimal.NewFromFloat(48.5)
	order.TimeInForce = orderv1.TimeInForceGoodTilCanceled

	var sent quickfix.Messagable
	f.sender.EXPECT().Send(gomock.Any()).DoAndReturn(func(msg quickfix.Messagable) bool {
		sent = msg
		return true
	})

	require.True(t, f.router.PlaceOrder(order))
	assert.Equal(t, "0", bodyString(t, sent, tag.TimeInForce))
}

func TestRouter_PlaceOrder_GoodTilCanceledLimitKeptAsIs(t *testing.T) {
	f := setupTestFixture(t)
	defer f.ctrl.Finish()

	order := limitOrder()
	order.TimeInForce = orderv1.TimeInForceGoodTilCanceled

	var sent quickfix.Messagable
	f.sender.EXPECT().Send(gomock.Any()).DoAndReturn(func(msg quickfix.Messagable) bool {
		sent = msg
		return true
	})

	require.True(t, f.router.PlaceOrder(order))
	assert.Equal(t, "1", bodyString(t, sent, tag.TimeInForce))
}

func TestRouter_PlaceOrder_GoodTilDateCarriesExpireTime(t *testing.T) {
	f := setupTestFixture(t)
	defer f.ctrl.Finish()

	order := limitOrder()
	order.TimeInForce = orderv1.TimeInForceGoodTilDate
	order.GoodTilDate = time.Date(2024, 6, 28, 17, 30, 0, 0, time.UTC)

	var sent quickfix.Messagable
	f.sender.EXPECT().Send(gomock.Any()).DoAndReturn(func(msg quickfix.Messagable) bool {
		sent = msg
		return true
	})

	require.True(t, f.router.PlaceOrder(order))
	assert.Equal(t, "6", bodyString(t, sent, tag.TimeInForce))

	_, err := sent.ToMessage().Body.GetString(tag.ExpireTime)
	assert.NoError(t, err)
}

func TestRouter_PlaceOrder_UnsupportedTypeIsRefused(t *testing.T) {
	f := setupTestFixture(t)
	defer f.ctrl.Finish()

	order := limitOrder()
	order.Type = orderv1.Type("trailing_stop")

	// no Send expectation: nothing may reach the wire
	assert.False(t, f.router.PlaceOrder(order))
	_, ok := order.PrimaryBrokerID()
	assert.False(t, ok)
}

func TestRouter_PlaceOrder_MissingISINIsRefused(t *testing.T) {
	f := setupTestFixture(t)
	defer f.ctrl.Finish()

	order := limitOrder()
	order.ISIN = ""

	assert.False(t, f.router.PlaceOrder(order))
}

func TestRouter_PlaceOrder_SendFailurePropagates(t *testing.T) {
	f := setupTestFixture(t)
	defer f.ctrl.Finish()

	f.sender.EXPECT().Send(gomock.Any()).Return(false)

	assert.False(t, f.router.PlaceOrder(limitOrder()))
}

func TestRouter_CancelOrder_AnchorsOriginalClOrdID(t *testing.T) {
	f := setupTestFixture(t)
	defer f.ctrl.Finish()

	order := limitOrder()
	order.AddBrokerID("place-1")
	order.AddBrokerID("replace-1")

	var sent quickfix.Messagable
	f.sender.EXPECT().Send(gomock.Any()).DoAndReturn(func(msg quickfix.Messagable) bool {
		sent = msg
		return true
	})

	require.True(t, f.router.CancelOrder(order))
	assert.Equal(t, "place-1", bodyString(t, sent, tag.OrigClOrdID))
	assert.NotEqual(t, "place-1", bodyString(t, sent, tag.ClOrdID))
	assert.Equal(t, "100", bodyString(t, sent, tag.OrderQty))
}

func TestRouter_CancelOrder_WithoutBrokerIDIsRefused(t *testing.T) {
	f := setupTestFixture(t)
	defer f.ctrl.Finish()

	assert.False(t, f.router.CancelOrder(limitOrder()))
}

func TestRouter_UpdateOrder_AnchorsOriginalAndAppendsNewID(t *testing.T) {
	f := setupTestFixture(t)
	defer f.ctrl.Finish()

	order := limitOrder()
	order.AddBrokerID("place-1")
	order.Quantity = decimal.NewFromInt(80)
	order.LimitPrice = decimal.NewFromFloat(49.75)

	var sent quickfix.Messagable
	f.sender.EXPECT().Send(gomock.Any()).DoAndReturn(func(msg quickfix.Messagable) bool {
		sent = msg
		return true
	})

	require.True(t, f.router.UpdateOrder(order))
	assert.Equal(t, "place-1", bodyString(t, sent, tag.OrigClOrdID))
	assert.Equal(t, "80", bodyString(t, sent, tag.OrderQty))
	assert.Equal(t, "49.75", bodyString(t, sent, tag.Price))

	ids := order.BrokerIDs()
	require.Len(t, ids, 2)
	assert.Equal(t, ids[1], bodyString(t, sent, tag.ClOrdID))

	// a later cancel still anchors on the placement id
	id, ok := order.PrimaryBrokerID()
	require.True(t, ok)
	assert.Equal(t, "place-1", id)
}

func TestRouter_UpdateOrder_WithoutBrokerIDIsRefused(t *testing.T) {
	f := setupTestFixture(t)
	defer f.ctrl.Finish()

	assert.False(t, f.router.UpdateOrder(limitOrder()))
}
