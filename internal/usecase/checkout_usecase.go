package usecase

import (
	"context"
	"errors"
	"net/http"
	"time"

	"storefront/internal/domain/cart"
	"storefront/internal/domain/model"
	"storefront/internal/domain/pricing"
	"storefront/internal/metrics"
	repo "storefront/internal/repository"
	"storefront/internal/session"
	"storefront/internal/validator"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// 注文確定イベントの送信先（RabbitMQ / ログ）
type OrderEventPublisher interface {
	PublishOrderSubmitted(ctx context.Context, order model.Order, items []model.OrderItem) error
}

type CheckoutUsecase struct {
	tx         repo.TransactionManager
	orders     repo.OrderRepository
	orderItems repo.OrderItemRepository
	discounts  repo.DiscountRepository
	sessions   *session.Manager
	engine     pricing.Engine
	publisher  OrderEventPublisher
	metrics    *metrics.Metrics
	now        func() time.Time
}

// DI
func NewCheckoutUsecase(
	tx repo.TransactionManager,
	orders repo.OrderRepository,
	orderItems repo.OrderItemRepository,
	discounts repo.DiscountRepository,
	sessions *session.Manager,
	engine pricing.Engine,
	publisher OrderEventPublisher,
	m *metrics.Metrics,
) *CheckoutUsecase {
	return &CheckoutUsecase{
		tx:         tx,
		orders:     orders,
		orderItems: orderItems,
		discounts:  discounts,
		sessions:   sessions,
		engine:     engine,
		publisher:  publisher,
		metrics:    m,
		now:        time.Now,
	}
}

type OrderOutput struct {
	model.Order
	Items []model.OrderItem `json:"items"`
}

type PlaceOrderResult struct {
	Order OrderOutput
	// 同じ冪等キーで既に作成済みだった
	Replayed bool
}

// 一意制約で負けた（同時に同じキーで確定された）
var errIdempotencyRace = errors.New("idempotency race")

// PlaceOrder はカートを注文として確定する。
// 同じセッション・同じ冪等キーなら2回目以降は最初の注文を返す。
func (u *CheckoutUsecase) PlaceOrder(ctx context.Context, sessionID string, cmd validator.CheckoutCommand) (PlaceOrderResult, error) {
	var (
		out      PlaceOrderResult
		created  bool
		newOrder model.Order
		newItems []model.OrderItem
	)

	_, err := u.sessions.Mutate(ctx, sessionID, func(s *cart.Store) error {
		// 保存の競合でやり直したとき、注文はもうコミット済み
		if created {
			s.Clear()
			return nil
		}

		// 同じキーなら同じ結果
		existing, found, err := u.findExisting(ctx, sessionID, cmd.IdempotencyKey)
		if err != nil {
			return err
		}
		if found {
			out = PlaceOrderResult{Order: existing, Replayed: true}
			return nil
		}

		if s.IsEmpty() {
			return NewHTTPError(http.StatusBadRequest, "cart empty")
		}

		table, err := loadDiscountTable(ctx, u.discounts)
		if err != nil {
			return internalError(ctx, "load discounts", err)
		}

		// 画面で確認したコードとカートのコードが一致していること
		if cmd.DiscountCode != s.DiscountCode() {
			return NewHTTPError(http.StatusConflict, "discount changed")
		}
		if cmd.DiscountCode != "" {
			if _, ok := table.Lookup(cmd.DiscountCode); !ok {
				return NewHTTPError(http.StatusNotFound, "discount not found")
			}
		}

		totals := s.Totals(u.engine, table)
		// 画面の表示と同じく2桁に丸めて比べる
		if cmd.ExpectedTotal != nil && !cmd.ExpectedTotal.Round(2).Equal(totals.Total.Round(2)) {
			return NewHTTPError(http.StatusConflict, "total changed")
		}

		now := u.now()
		order := model.Order{
			ID:             uuid.NewString(),
			SessionID:      sessionID,
			CustomerName:   cmd.Customer.Name,
			Email:          cmd.Customer.Email,
			Phone:          cmd.Customer.Phone,
			Company:        cmd.Customer.Company,
			AddressLine:    cmd.Customer.AddressLine,
			PostalCode:     cmd.Customer.PostalCode,
			City:           cmd.Customer.City,
			DiscountCode:   s.DiscountCode(),
			Subtotal:       totals.Subtotal,
			DiscountAmount: totals.DiscountAmount,
			TaxableAmount:  totals.TaxableAmount,
			VAT:            totals.VAT,
			Total:          totals.Total,
			Status:         model.OrderStatusSubmitted,
			IdempotencyKey: cmd.IdempotencyKey,
			CreatedAt:      now,
			UpdatedAt:      now,
		}

		//注文処理はトランザクション
		var items []model.OrderItem
		err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
			items = make([]model.OrderItem, 0, s.Len())
			for _, li := range s.Items() {
				//確定時に商品を再確認
				p, err := r.Products().FindByID(ctx, li.ProductID)
				if errors.Is(err, repo.ErrNotFound) || (err == nil && !p.IsActive) {
					return NewHTTPError(http.StatusBadRequest, "invalid")
				}
				if err != nil {
					return internalError(ctx, "find product", err)
				}

				//スナップショット
				items = append(items, model.OrderItem{
					OrderID:             order.ID,
					ProductID:           li.ProductID,
					ProductNameSnapshot: li.Name,
					UnitPriceSnapshot:   li.UnitPrice,
					Quantity:            li.Quantity,
					CreatedAt:           now,
				})
			}

			if err := r.Orders().Create(ctx, order); err != nil {
				if errors.Is(err, repo.ErrConflict) {
					return errIdempotencyRace
				}
				return internalError(ctx, "create order", err)
			}

			//注文明細一括作成
			if err := r.OrderItems().CreateBulk(ctx, order.ID, items); err != nil {
				return internalError(ctx, "create order items", err)
			}
			return nil
		})

		if errors.Is(err, errIdempotencyRace) {
			// ロールバック後に勝った側の注文を読む
			existing, found, ferr := u.findExisting(ctx, sessionID, cmd.IdempotencyKey)
			if ferr != nil {
				return ferr
			}
			if !found {
				return NewHTTPError(http.StatusConflict, "idempotency conflict")
			}
			out = PlaceOrderResult{Order: existing, Replayed: true}
			return nil
		}
		if err != nil {
			return err
		}

		// 再注文防止
		s.Clear()

		created = true
		newOrder, newItems = order, items
		out = PlaceOrderResult{Order: OrderOutput{Order: order, Items: items}}
		return nil
	})
	if err != nil && created {
		// 注文は確定済み。カートの保存だけ失敗した
		zerolog.Ctx(ctx).Warn().Err(err).Str("order_id", newOrder.ID).Msg("clear cart after checkout failed")
		err = nil
	}
	if err != nil {
		if _, ok := AsHTTPError(err); ok {
			return PlaceOrderResult{}, err
		}
		return PlaceOrderResult{}, internalError(ctx, "place order", err)
	}

	if created {
		total, _ := newOrder.Total.Float64()
		u.metrics.OrderPlaced(total)

		// 注文はコミット済みなので送信失敗はログだけ
		if err := u.publisher.PublishOrderSubmitted(ctx, newOrder, newItems); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("order_id", newOrder.ID).Msg("publish order event failed")
		}
	}

	return out, nil
}

func (u *CheckoutUsecase) findExisting(ctx context.Context, sessionID, key string) (OrderOutput, bool, error) {
	existing, found, err := u.orders.FindByIdempotencyKey(ctx, sessionID, key)
	if err != nil {
		return OrderOutput{}, false, internalError(ctx, "find order by key", err)
	}
	if !found {
		return OrderOutput{}, false, nil
	}
	items, err := u.orderItems.ListByOrderID(ctx, existing.ID)
	if err != nil {
		return OrderOutput{}, false, internalError(ctx, "list order items", err)
	}
	return OrderOutput{Order: existing, Items: items}, true, nil
}

// GetOrder は同じセッションの注文だけ返す（他のセッションには404）。
func (u *CheckoutUsecase) GetOrder(ctx context.Context, sessionID string, orderID string) (OrderOutput, error) {
	if _, err := uuid.Parse(orderID); err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	o, err := u.orders.FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return OrderOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return OrderOutput{}, internalError(ctx, "get order", err)
	}
	if o.SessionID != sessionID {
		return OrderOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	items, err := u.orderItems.ListByOrderID(ctx, o.ID)
	if err != nil {
		return OrderOutput{}, internalError(ctx, "list order items", err)
	}
	return OrderOutput{Order: o, Items: items}, nil
}
