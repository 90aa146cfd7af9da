package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// Transaction kinds recorded by the wallet.
const (
	KindTransfer = "transfer"
	KindAssign   = "assign"
)

// TransactionRepo records NFT actions and applies their effect on the
// wallet's NFT set atomically.
type TransactionRepo struct {
	db *sql.DB
}

func NewTransactionRepo(db *sql.DB) *TransactionRepo { return &TransactionRepo{db: db} }

// ApplyTransfer records wt and removes its NFTs from the wallet.
func (r *TransactionRepo) ApplyTransfer(ctx context.Context, wt WalletTransaction) error {
	return r.apply(ctx, wt, func(tx *sql.Tx, id string) error {
		_, err := tx.ExecContext(ctx, `DELETE FROM nfts WHERE launcher_id = ?`, id)
		return err
	})
}

// ApplyAssign records wt and moves its NFTs to wt.DidID.
func (r *TransactionRepo) ApplyAssign(ctx context.Context, wt WalletTransaction) error {
	return r.apply(ctx, wt, func(tx *sql.Tx, id string) error {
		_, err := tx.ExecContext(ctx, `UPDATE nfts SET owner_did = ? WHERE launcher_id = ?`, wt.DidID, id)
		return err
	})
}

func (r *TransactionRepo) apply(ctx context.Context, wt WalletTransaction, effect func(tx *sql.Tx, nftID string) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `
	INSERT INTO wallet_transactions(id, kind, address, did_id, fee, created_at)
	VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)`, wt.ID, wt.Kind, wt.Address, wt.DidID, int64(wt.Fee)); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("insert transaction: %w", err)
	}
	for _, id := range wt.NftIDs {
		if _, err := tx.ExecContext(ctx, `INSERT INTO transaction_nfts(transaction_id, launcher_id) VALUES (?, ?)`, wt.ID, id); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("link nft %s: %w", id, err)
		}
		if err := effect(tx, id); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply to nft %s: %w", id, err)
		}
	}
	return tx.Commit()
}

// List returns recorded transactions, newest first.
func (r *TransactionRepo) List(ctx context.Context) ([]WalletTransaction, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, kind, address, did_id, fee, created_at FROM wallet_transactions ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []WalletTransaction
	for rows.Next() {
		var wt WalletTransaction
		var address, did sql.NullString
		var fee int64
		if err := rows.Scan(&wt.ID, &wt.Kind, &address, &did, &fee, &wt.CreatedAt); err != nil {
			return nil, err
		}
		wt.Address = nullString(address)
		wt.DidID = nullString(did)
		wt.Fee = uint64(fee)
		out = append(out, wt)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		ids, err := r.nftIDs(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].NftIDs = ids
	}
	return out, nil
}

func (r *TransactionRepo) nftIDs(ctx context.Context, transactionID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT launcher_id FROM transaction_nfts WHERE transaction_id = ? ORDER BY launcher_id`, transactionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
