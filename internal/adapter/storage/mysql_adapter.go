package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/chainmind/order-lifecycle/internal/core/domain"
	"github.com/chainmind/order-lifecycle/internal/port"
)

// MySQLAdapter backs the notification store, the historical event log,
// and recipient resolution against the shared ChainMind schema.
type MySQLAdapter struct {
	db *sql.DB
}

func NewMySQLAdapter(db *sql.DB) *MySQLAdapter {
	return &MySQLAdapter{db: db}
}

func (m *MySQLAdapter) CreateNotification(ctx context.Context, n domain.Notification) (domain.Notification, error) {
	metadata, err := marshalMetadata(n.Metadata)
	if err != nil {
		return domain.Notification{}, fmt.Errorf("encode metadata: %w", err)
	}

	_, err = m.db.ExecContext(ctx, `
		INSERT INTO notifications
			(id, user_id, business_id, type, title, message, reference_id, reference_type, metadata, is_read, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		n.ID, n.UserID, n.BusinessID, string(n.Type), n.Title, n.Message,
		nullable(n.ReferenceID), nullable(n.ReferenceType), metadata, n.Read, n.CreatedAt,
	)
	if err != nil {
		return domain.Notification{}, fmt.Errorf("insert notification: %w", err)
	}
	return n, nil
}

func (m *MySQLAdapter) UnreadCount(ctx context.Context, userID, businessID string) (int, error) {
	var count int
	err := m.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM notifications
		WHERE user_id = ? AND business_id = ? AND is_read = FALSE`,
		userID, businessID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return count, nil
}

func (m *MySQLAdapter) Append(ctx context.Context, ev domain.HistoricalEvent) error {
	metadata, err := marshalMetadata(ev.Metadata)
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}

	_, err = m.db.ExecContext(ctx, `
		INSERT INTO historical_events
			(id, product_id, business_id, vendor_id, event_date, quantity_sold, kind, location, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, NOW())`,
		ev.ID, ev.ProductID, ev.BusinessID, nullable(ev.VendorID),
		ev.Date, ev.QuantitySold, string(ev.Kind), nullable(ev.Location), metadata,
	)
	if err != nil {
		return fmt.Errorf("insert historical event: %w", err)
	}
	return nil
}

func (m *MySQLAdapter) BusinessRecipients(ctx context.Context, businessID string) ([]string, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT id FROM users
		WHERE business_id = ? AND role IN ('owner', 'manager')`,
		businessID,
	)
	if err != nil {
		return nil, fmt.Errorf("query business recipients: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan recipient: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recipients: %w", err)
	}
	return ids, nil
}

func (m *MySQLAdapter) VendorUser(ctx context.Context, vendorID string) (string, error) {
	var id string
	err := m.db.QueryRowContext(ctx, `
		SELECT id FROM users
		WHERE vendor_id = ? AND role = 'vendor'`,
		vendorID,
	).Scan(&id)

	if errors.Is(err, sql.ErrNoRows) {
		return "", port.ErrNoVendorUser
	}
	if err != nil {
		return "", fmt.Errorf("query vendor user: %w", err)
	}
	return id, nil
}

func (m *MySQLAdapter) VendorContact(ctx context.Context, ref domain.VendorRef) (domain.VendorContact, error) {
	// A ref that already carries an email needs no lookup.
	if strings.TrimSpace(ref.Email) != "" {
		return domain.VendorContact{Name: ref.Name, Email: ref.Email}, nil
	}
	if ref.ID == "" {
		return domain.VendorContact{}, port.ErrNoVendorContact
	}

	var contact domain.VendorContact
	var email sql.NullString
	err := m.db.QueryRowContext(ctx, `
		SELECT name, email FROM vendors WHERE id = ?`,
		ref.ID,
	).Scan(&contact.Name, &email)

	if errors.Is(err, sql.ErrNoRows) {
		return domain.VendorContact{}, port.ErrNoVendorContact
	}
	if err != nil {
		return domain.VendorContact{}, fmt.Errorf("query vendor contact: %w", err)
	}

	contact.Email = email.String
	return contact, nil
}

func marshalMetadata(metadata map[string]any) ([]byte, error) {
	if len(metadata) == 0 {
		return []byte("{}"), nil
	}
	return json.Marshal(metadata)
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
