package store

// SQL query constants organized by entity. All SQL lives here;
// PostgresStore methods reference these constants.

// Item queries.
const (
	itemColumns = `id, name, product_id, region_code, COALESCE(store_ids, ''), active, user_id,
		last_stock, last_probability, last_checked_at,
		notify_above_enabled, notify_above_threshold, last_notified_above_at,
		notify_below_enabled, notify_below_threshold, last_notified_below_at,
		added_at, updated_at`

	queryCreateItem = `
		INSERT INTO items (
			name, product_id, region_code, store_ids, active, user_id,
			notify_above_enabled, notify_above_threshold,
			notify_below_enabled, notify_below_threshold,
			added_at, updated_at
		) VALUES (
			@name, @product_id, @region_code, @store_ids, @active, @user_id,
			@notify_above_enabled, @notify_above_threshold,
			@notify_below_enabled, @notify_below_threshold,
			now(), now()
		)
		RETURNING id, added_at, updated_at`

	queryGetItem = `
		SELECT ` + itemColumns + `
		FROM items
		WHERE id = $1`

	queryGetItemByProductID = `
		SELECT ` + itemColumns + `
		FROM items
		WHERE product_id = $1
		ORDER BY id
		LIMIT 1`

	queryListActiveItems = `
		SELECT ` + itemColumns + `
		FROM items
		WHERE active AND ($1::BIGINT IS NULL OR user_id = $1)
		ORDER BY id`

	queryUpdateItem = `
		UPDATE items SET
			name = @name,
			product_id = @product_id,
			region_code = @region_code,
			store_ids = @store_ids,
			active = @active,
			notify_above_enabled = @notify_above_enabled,
			notify_above_threshold = @notify_above_threshold,
			notify_below_enabled = @notify_below_enabled,
			notify_below_threshold = @notify_below_threshold,
			updated_at = now()
		WHERE id = @id`

	querySetItemActive = `
		UPDATE items SET active = $2, updated_at = now() WHERE id = $1`

	queryDeleteItem = `DELETE FROM items WHERE id = $1`

	queryUpdateItemCheck = `
		UPDATE items SET
			last_stock = $2,
			last_probability = $3,
			last_checked_at = $4,
			updated_at = now()
		WHERE id = $1`

	queryMarkNotifiedAbove = `
		UPDATE items SET last_notified_above_at = $2, updated_at = now() WHERE id = $1`

	queryMarkNotifiedBelow = `
		UPDATE items SET last_notified_below_at = $2, updated_at = now() WHERE id = $1`
)

// Snapshot queries.
const (
	queryInsertSnapshot = `
		INSERT INTO availability_snapshots (
			item_id, timestamp, total_stock, probability_summary, raw
		) VALUES (
			@item_id, @timestamp, @total_stock, @probability_summary, @raw
		)
		RETURNING id`

	queryListSnapshots = `
		SELECT id, item_id, timestamp, total_stock, probability_summary, raw
		FROM availability_snapshots
		WHERE item_id = $1
		ORDER BY timestamp DESC, id DESC
		LIMIT $2`

	queryCountSnapshots = `
		SELECT COUNT(*) FROM availability_snapshots WHERE item_id = $1`
)

// User queries.
const (
	queryCreateUser = `
		INSERT INTO users (username, role, email, created_at)
		VALUES (@username, @role, @email, now())
		RETURNING id, created_at`

	queryGetUser = `
		SELECT id, username, role, email, created_at
		FROM users
		WHERE id = $1`

	queryListUsers = `
		SELECT id, username, role, email, created_at
		FROM users
		ORDER BY username`

	queryListAlertRecipients = `
		SELECT DISTINCT email FROM (
			SELECT email FROM users WHERE id = $1 AND email IS NOT NULL
			UNION ALL
			SELECT email FROM users WHERE role = 'admin' AND email IS NOT NULL
		) recipients
		ORDER BY email`
)

// Dashboard queries.
const (
	queryDashboardSummary = `
		SELECT
			COUNT(*) AS items_total,
			COUNT(*) FILTER (WHERE active) AS items_active,
			COUNT(*) FILTER (WHERE NOT active) AS items_inactive,
			COUNT(*) FILTER (WHERE last_stock IS NOT NULL AND last_stock > 0) AS items_in_stock,
			COUNT(*) FILTER (WHERE last_stock IS NOT NULL AND last_stock <= 0) AS items_out_of_stock,
			COUNT(*) FILTER (WHERE last_stock IS NULL) AS items_unknown_stock,
			COUNT(*) FILTER (WHERE notify_above_enabled OR notify_below_enabled) AS items_notify_enabled,
			MAX(last_checked_at) AS last_checked_at
		FROM items
		WHERE $1::BIGINT IS NULL OR user_id = $1`
)
