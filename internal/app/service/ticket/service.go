package ticket

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/hyosobang/passgate/internal/app/service/ledger"
	"github.com/hyosobang/passgate/internal/models"
	"github.com/hyosobang/passgate/pkg/config"
	"github.com/hyosobang/passgate/pkg/logctx"
	"github.com/hyosobang/passgate/pkg/phone"
	"github.com/hyosobang/passgate/pkg/tool"
)

var (
	// ErrTicketNotFound means the token resolves to no member: either never
	// issued or already rotated away.
	ErrTicketNotFound = errors.New("ticket: unknown token")
	// ErrMemberNotFound is returned by Rotate when the phone matches nobody.
	ErrMemberNotFound = errors.New("ticket: member not found")
)

// Service issues and rotates the opaque token each member's mobile ticket is
// keyed by, and serves the read-only ticket display behind /my-qr/{token}.
type Service struct {
	db     *gorm.DB
	log    *zap.SugaredLogger
	cfg    *config.Config
	ledger *ledger.Service
}

func NewService(db *gorm.DB, log *zap.SugaredLogger, cfg *config.Config, lg *ledger.Service) *Service {
	return &Service{db: db, log: log, cfg: cfg, ledger: lg}
}

// IssueTx generates a fresh token and stores it on the member row inside the
// caller's transaction. Token uniqueness rides on the qr_code unique index;
// with 122 bits of randomness a collision surfaces as a write failure rather
// than a retry loop.
func (s *Service) IssueTx(ctx context.Context, tx *gorm.DB, member *models.Member) (string, error) {
	token := tool.GenerateTicketToken()
	if err := tx.WithContext(ctx).Model(&models.Member{}).
		Where("id = ?", member.ID).
		Update("qr_code", token).Error; err != nil {
		return "", fmt.Errorf("failed to issue ticket token: %w", err)
	}
	member.QrCode = &token
	return token, nil
}

// Rotate re-identifies the member by phone and overwrites the token. The old
// token stops resolving the moment the update commits.
func (s *Service) Rotate(ctx context.Context, rawPhone string) (*models.Member, string, error) {
	formatted, err := phone.Normalize(rawPhone)
	if err != nil {
		return nil, "", err
	}

	var member models.Member
	if err := s.db.WithContext(ctx).Where("phone_number = ?", formatted).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrMemberNotFound
		}
		return nil, "", fmt.Errorf("failed to find member: %w", err)
	}

	token := tool.GenerateTicketToken()
	if err := s.db.WithContext(ctx).Model(&models.Member{}).
		Where("id = ?", member.ID).
		Update("qr_code", token).Error; err != nil {
		return nil, "", fmt.Errorf("failed to rotate ticket token: %w", err)
	}
	member.QrCode = &token

	logctx.FromCtx(ctx, s.log).Infow("ticket token rotated", "member_id", member.ID)
	return &member, token, nil
}

// TicketURL builds the shareable deep link for a token.
func (s *Service) TicketURL(token string) string {
	return strings.TrimRight(s.cfg.SiteOrigin, "/") + "/my-qr/" + token
}

// Display is the read-only ticket view: member name plus aggregate remaining
// count across active passes, and the full pass list for the detail rows.
type Display struct {
	Member         *models.Member `json:"member"`
	TotalRemaining int64          `json:"total_remaining"`
	Passes         []*models.Pass `json:"passes"`
	TicketURL      string         `json:"ticket_url"`
}

func (s *Service) GetDisplay(ctx context.Context, token string) (*Display, error) {
	var member models.Member
	if err := s.db.WithContext(ctx).Where("qr_code = ?", token).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, fmt.Errorf("failed to find member by token: %w", err)
	}

	total, err := s.ledger.TotalRemaining(ctx, member.ID)
	if err != nil {
		return nil, err
	}
	passes, err := s.ledger.ListAll(ctx, member.ID)
	if err != nil {
		return nil, err
	}

	return &Display{
		Member:         &member,
		TotalRemaining: total,
		Passes:         passes,
		TicketURL:      s.TicketURL(token),
	}, nil
}

// ParseScanPayload extracts a ticket token from a decoded QR payload. Entry
// scanners see either the raw token or a full /my-qr/{token} deep link.
func ParseScanPayload(payload string) string {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return ""
	}
	if u, err := url.Parse(payload); err == nil && u.Scheme != "" {
		parts := strings.Split(strings.Trim(u.Path, "/"), "/")
		if len(parts) >= 2 && parts[len(parts)-2] == "my-qr" {
			return parts[len(parts)-1]
		}
	}
	return payload
}
