package repository

import (
	"context"
	"fmt"

	"github.com/irecommend-mm/loveconnect-mm-sub001/internal/database"
	"github.com/irecommend-mm/loveconnect-mm-sub001/internal/model"
)

// BlockRepository handles block data access
type BlockRepository struct {
	db database.Database
}

// NewBlockRepository creates a new block repository
func NewBlockRepository(db database.Database) *BlockRepository {
	return &BlockRepository{db: db}
}

// Create stores a block. Blocks are keyed by the ordered pair, so blocking
// the same user twice fails with database.ErrDuplicate.
func (r *BlockRepository) Create(ctx context.Context, block *model.Block) error {
	query := `CREATE type::thing("block", [$blocker_user_id, $blocked_user_id]) SET blocker_user_id = type::record($blocker_user_id), blocked_user_id = type::record($blocked_user_id), created_on = time::now()`
	vars := map[string]interface{}{
		"blocker_user_id": block.BlockerUserID,
		"blocked_user_id": block.BlockedUserID,
	}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		return fmt.Errorf("failed to create block: %w", err)
	}

	data, err := asRecord(result)
	if err != nil {
		return fmt.Errorf("failed to extract block: %w", err)
	}
	block.ID = convertSurrealID(data["id"])
	block.CreatedOn = parseTime(data["created_on"])
	return nil
}

// GetBlockedEitherWay returns users that userID blocked or that blocked userID
func (r *BlockRepository) GetBlockedEitherWay(ctx context.Context, userID string) ([]string, error) {
	query := `
		SELECT blocker_user_id, blocked_user_id FROM block
		WHERE blocker_user_id = type::record($user_id) OR blocked_user_id = type::record($user_id)
	`
	vars := map[string]interface{}{"user_id": userID}

	results, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	records := statementRecords(results)
	ids := make([]string, 0, len(records))
	for _, rec := range records {
		blocker := convertSurrealID(rec["blocker_user_id"])
		blocked := convertSurrealID(rec["blocked_user_id"])
		if blocker == userID {
			ids = append(ids, blocked)
		} else {
			ids = append(ids, blocker)
		}
	}
	return ids, nil
}
