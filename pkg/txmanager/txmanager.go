package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SalonBooking/pkg/dbmetrics"
)

var (
	// ErrBeginTx возвращается, если не удалось начать транзакцию
	ErrBeginTx = errors.New("txmanager: failed to begin transaction")

	// ErrCommitTx возвращается, если не удалось зафиксировать транзакцию
	ErrCommitTx = errors.New("txmanager: failed to commit transaction")
)

// maxAttempts сколько раз выполняется транзакция, отклоненная PostgreSQL с 40001
const maxAttempts = 2

// TxBeginner источник транзакций (*dbmetrics.DB)
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error)
}

// TransactionManager выполняет функцию в транзакции, передавая её через контекст
// Репозитории получают транзакцию через dbmetrics.GetExecutor
type TransactionManager struct {
	db TxBeginner
}

// NewTransactionManager создает менеджер транзакций
func NewTransactionManager(db TxBeginner) *TransactionManager {
	return &TransactionManager{db: db}
}

// Do выполняет fn в транзакции с уровнем изоляции по умолчанию (READ COMMITTED)
func (m *TransactionManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, nil, fn)
}

// DoSerializable выполняет fn в транзакции SERIALIZABLE
// Используется для операций "проверить доступность - забронировать"
func (m *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable}, fn)
}

// DoReadOnly выполняет fn в read-only транзакции
func (m *TransactionManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{ReadOnly: true}, fn)
}

func (m *TransactionManager) run(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) error {
	// Вложенный вызов переиспользует внешнюю транзакцию
	if dbmetrics.IsInTransaction(ctx) {
		return fn(ctx)
	}

	var err error
	for i := 0; i < maxAttempts; i++ {
		var retry bool
		retry, err = m.attempt(ctx, opts, fn)
		if !retry || ctx.Err() != nil {
			return err
		}
	}
	return err
}

// attempt выполняет fn в одной транзакции
// retry == true, если транзакция откатилась из-за конфликта сериализации
func (m *TransactionManager) attempt(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) (retry bool, err error) {
	tx, err := m.db.BeginTx(ctx, opts)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrBeginTx, err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(dbmetrics.WithTx(ctx, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return false, fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return serializationFailed(tx, err), err
	}

	if err := tx.Commit(); err != nil {
		return serializationFailed(tx, err), fmt.Errorf("%w: %v", ErrCommitTx, err)
	}

	return false, nil
}

// serializationFailed ошибка fn приходит обернутой через %v, поэтому смотрим и на саму транзакцию
func serializationFailed(tx dbmetrics.TxExecutor, err error) bool {
	if dbmetrics.IsSerializationFailure(err) {
		return true
	}
	tracker, ok := tx.(dbmetrics.ConflictTracker)
	return ok && tracker.SerializationFailed()
}
