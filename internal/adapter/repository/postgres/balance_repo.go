package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/wasteledger/internal/domain"
)

const (
	selectBalanceSQL = `
		SELECT id, accreditation_id, organisation_id, amount::text, available_amount::text,
		       version, created_at, updated_at
		FROM waste_balances
		WHERE accreditation_id = $1`

	selectBalanceTransactionsSQL = `
		SELECT id, type, amount::text, opening_amount::text, closing_amount::text,
		       opening_available_amount::text, closing_available_amount::text,
		       created_at, created_by, entities
		FROM waste_balance_transactions
		WHERE balance_id = $1
		ORDER BY seq`

	selectBalanceLineageSQL = `
		SELECT lineage_key, entity_id, last_type, net::text, current_version_id, version_ids
		FROM waste_balance_lineage
		WHERE balance_id = $1`

	insertBalanceSQL = `
		INSERT INTO waste_balances (id, accreditation_id, organisation_id, amount, available_amount, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4::numeric, $5::numeric, $6, $7, $8)
		ON CONFLICT (accreditation_id) DO NOTHING`

	updateBalanceSQL = `
		UPDATE waste_balances
		SET amount = $2::numeric, available_amount = $3::numeric, version = $4, updated_at = $5
		WHERE id = $1 AND version = $6`

	insertBalanceTransactionSQL = `
		INSERT INTO waste_balance_transactions (
			id, balance_id, seq, type, amount, opening_amount, closing_amount,
			opening_available_amount, closing_available_amount, created_at, created_by, entities
		)
		VALUES ($1, $2, $3, $4, $5::numeric, $6::numeric, $7::numeric, $8::numeric, $9::numeric, $10, $11, $12)`

	upsertBalanceLineageSQL = `
		INSERT INTO waste_balance_lineage (balance_id, lineage_key, entity_id, last_type, net, current_version_id, version_ids)
		VALUES ($1, $2, $3, $4, $5::numeric, $6, $7)
		ON CONFLICT (balance_id, lineage_key) DO UPDATE
		SET entity_id = EXCLUDED.entity_id,
		    last_type = EXCLUDED.last_type,
		    net = EXCLUDED.net,
		    current_version_id = EXCLUDED.current_version_id,
		    version_ids = EXCLUDED.version_ids`
)

// BalanceRepository implements usecase.BalanceRepository. The balance row
// carries the version used for compare-and-swap; transactions and the
// lineage index are stored alongside it in the same transaction.
type BalanceRepository struct {
	tx *TxManager
}

// NewBalanceRepository creates a new BalanceRepository.
func NewBalanceRepository(db DB) *BalanceRepository {
	return &BalanceRepository{tx: NewTxManager(db)}
}

// FindByAccreditationID loads a balance with its transactions and lineage
// from one snapshot.
func (r *BalanceRepository) FindByAccreditationID(ctx context.Context, accreditationID string) (*domain.Balance, error) {
	var balance *domain.Balance

	err := r.tx.WithSnapshot(ctx, func(q Querier) error {
		b, err := loadBalance(ctx, q, accreditationID)
		if err != nil {
			return err
		}
		balance = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	return balance, nil
}

// FindByAccreditationIDs returns the balances that exist for the given ids.
func (r *BalanceRepository) FindByAccreditationIDs(ctx context.Context, accreditationIDs []string) ([]*domain.Balance, error) {
	seen := make(map[string]bool, len(accreditationIDs))
	out := make([]*domain.Balance, 0, len(accreditationIDs))

	for _, id := range accreditationIDs {
		if seen[id] {
			continue
		}
		seen[id] = true

		b, err := r.FindByAccreditationID(ctx, id)
		if errors.Is(err, domain.ErrBalanceNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}

	return out, nil
}

// Save writes balance if the stored version equals expectedVersion, then
// appends the transactions and updates the lineage of every entity they
// touch.
func (r *BalanceRepository) Save(ctx context.Context, balance *domain.Balance, expectedVersion int64, appended []domain.Transaction) error {
	return r.tx.WithTx(ctx, func(q Querier) error {
		if err := writeBalanceRow(ctx, q, balance, expectedVersion); err != nil {
			return err
		}

		base := len(balance.Transactions) - len(appended)
		touched := make(map[string]struct{})

		for i, tx := range appended {
			if err := insertTransaction(ctx, q, balance.ID, int64(base+i+1), tx); err != nil {
				return err
			}
			for _, e := range tx.Entities {
				touched[e.LineageKey()] = struct{}{}
			}
		}

		keys := make([]string, 0, len(touched))
		for k := range touched {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, key := range keys {
			if err := upsertLineage(ctx, q, balance.ID, key, balance.Lineage[key]); err != nil {
				return err
			}
		}

		return nil
	})
}

func writeBalanceRow(ctx context.Context, q Querier, b *domain.Balance, expectedVersion int64) error {
	if expectedVersion == 0 {
		tag, err := q.Exec(ctx, insertBalanceSQL,
			b.ID, b.AccreditationID, b.OrganisationID,
			b.Amount.String(), b.AvailableAmount.String(),
			b.Version, b.CreatedAt, b.UpdatedAt,
		)
		if err != nil {
			return storeError("insert balance", err)
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrVersionConflict
		}
		return nil
	}

	tag, err := q.Exec(ctx, updateBalanceSQL,
		b.ID, b.Amount.String(), b.AvailableAmount.String(),
		b.Version, b.UpdatedAt, expectedVersion,
	)
	if err != nil {
		return storeError("update balance", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrVersionConflict
	}
	return nil
}

func insertTransaction(ctx context.Context, q Querier, balanceID string, seq int64, tx domain.Transaction) error {
	createdBy, err := json.Marshal(tx.CreatedBy)
	if err != nil {
		return err
	}
	entities, err := encodeEntities(tx.Entities)
	if err != nil {
		return err
	}

	_, err = q.Exec(ctx, insertBalanceTransactionSQL,
		tx.ID, balanceID, seq, string(tx.Type),
		tx.Amount.String(), tx.OpeningAmount.String(), tx.ClosingAmount.String(),
		tx.OpeningAvailableAmount.String(), tx.ClosingAvailableAmount.String(),
		tx.CreatedAt, createdBy, entities,
	)
	return storeError("insert transaction", err)
}

func upsertLineage(ctx context.Context, q Querier, balanceID, key string, l domain.Lineage) error {
	versionIDs := l.VersionIDs
	if versionIDs == nil {
		versionIDs = []string{}
	}
	raw, err := json.Marshal(versionIDs)
	if err != nil {
		return err
	}

	_, err = q.Exec(ctx, upsertBalanceLineageSQL,
		balanceID, key, l.EntityID, string(l.LastType), l.Net.String(), l.CurrentVersionID, raw,
	)
	return storeError("upsert lineage", err)
}

func loadBalance(ctx context.Context, q Querier, accreditationID string) (*domain.Balance, error) {
	var (
		b                 domain.Balance
		amount, available string
	)

	err := q.QueryRow(ctx, selectBalanceSQL, accreditationID).Scan(
		&b.ID, &b.AccreditationID, &b.OrganisationID, &amount, &available,
		&b.Version, &b.CreatedAt, &b.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrBalanceNotFound
	}
	if err != nil {
		return nil, storeError("select balance", err)
	}
	if err := parseNumerics([]*decimal.Decimal{&b.Amount, &b.AvailableAmount}, amount, available); err != nil {
		return nil, err
	}

	if b.Transactions, err = loadTransactions(ctx, q, b.ID); err != nil {
		return nil, err
	}
	if b.Lineage, err = loadLineage(ctx, q, b.ID); err != nil {
		return nil, err
	}

	return &b, nil
}

func loadTransactions(ctx context.Context, q Querier, balanceID string) ([]domain.Transaction, error) {
	rows, err := q.Query(ctx, selectBalanceTransactionsSQL, balanceID)
	if err != nil {
		return nil, storeError("select transactions", err)
	}
	defer rows.Close()

	out := make([]domain.Transaction, 0)
	for rows.Next() {
		var (
			tx                        domain.Transaction
			typ                       string
			amount, openAmt, closeAmt string
			openAvail, closeAvail     string
			createdBy, entities       []byte
		)

		if err := rows.Scan(&tx.ID, &typ, &amount, &openAmt, &closeAmt, &openAvail, &closeAvail, &tx.CreatedAt, &createdBy, &entities); err != nil {
			return nil, storeError("scan transaction", err)
		}

		tx.Type = domain.TransactionType(typ)
		if err := parseNumerics(
			[]*decimal.Decimal{&tx.Amount, &tx.OpeningAmount, &tx.ClosingAmount, &tx.OpeningAvailableAmount, &tx.ClosingAvailableAmount},
			amount, openAmt, closeAmt, openAvail, closeAvail,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(createdBy, &tx.CreatedBy); err != nil {
			return nil, fmt.Errorf("decode created_by: %w", err)
		}
		if tx.Entities, err = decodeEntities(entities); err != nil {
			return nil, err
		}

		out = append(out, tx)
	}

	return out, storeError("iterate transactions", rows.Err())
}

func loadLineage(ctx context.Context, q Querier, balanceID string) (map[string]domain.Lineage, error) {
	rows, err := q.Query(ctx, selectBalanceLineageSQL, balanceID)
	if err != nil {
		return nil, storeError("select lineage", err)
	}
	defer rows.Close()

	out := make(map[string]domain.Lineage)
	for rows.Next() {
		var (
			key, lastType, net string
			versionIDs         []byte
			l                  domain.Lineage
		)

		if err := rows.Scan(&key, &l.EntityID, &lastType, &net, &l.CurrentVersionID, &versionIDs); err != nil {
			return nil, storeError("scan lineage", err)
		}

		l.LastType = domain.EntityType(lastType)
		if err := parseNumerics([]*decimal.Decimal{&l.Net}, net); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(versionIDs, &l.VersionIDs); err != nil {
			return nil, fmt.Errorf("decode version ids: %w", err)
		}

		out[key] = l
	}

	return out, storeError("iterate lineage", rows.Err())
}
