package upstream

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"retail-console/internal/domain"
)

type createManagerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *Client) CreateManager(ctx context.Context, token, name, email, password string) (string, error) {
	var out envelope
	err := c.do(ctx, token, "POST", "/admin/managers/create", nil, createManagerRequest{Name: name, Email: email, Password: password}, &out)
	if err != nil {
		return "", err
	}
	return out.Message, nil
}

// ListManagers fetches all manager accounts. The backend returns the list as
// colon/pipe-delimited text ("[id:name:email|...]") inside the response
// envelope rather than structured JSON; parsing lives here and nowhere else.
func (c *Client) ListManagers(ctx context.Context, token string) ([]domain.Manager, error) {
	var out envelope
	if err := c.do(ctx, token, "GET", "/admin/managers/list", nil, nil, &out); err != nil {
		return nil, err
	}
	return parseManagerRecords(out.payload()), nil
}

// SearchManager looks a manager up by email.
func (c *Client) SearchManager(ctx context.Context, token, email string) (*domain.Manager, error) {
	query := url.Values{"email": []string{email}}
	var out envelope
	if err := c.do(ctx, token, "GET", "/admin/managers/search", query, nil, &out); err != nil {
		return nil, err
	}
	managers := parseManagerRecords(out.payload())
	if len(managers) == 0 {
		return nil, domain.ErrNotFound
	}
	return &managers[0], nil
}

func (c *Client) DeleteManager(ctx context.Context, token string, id int64) (string, error) {
	var out envelope
	err := c.do(ctx, token, "DELETE", fmt.Sprintf("/admin/managers/delete/%d", id), nil, nil, &out)
	if err != nil {
		return "", err
	}
	return out.Message, nil
}

// parseManagerRecords decodes the backend's delimited manager listing.
// Records are pipe-separated, fields colon-separated: id:name:email.
// Malformed records are skipped rather than failing the whole listing.
func parseManagerRecords(raw string) []domain.Manager {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "[")
	raw = strings.TrimSuffix(raw, "]")
	if strings.TrimSpace(raw) == "" {
		return []domain.Manager{}
	}

	records := strings.Split(raw, "|")
	out := make([]domain.Manager, 0, len(records))
	for _, rec := range records {
		rec = strings.TrimSpace(rec)
		if rec == "" {
			continue
		}
		parts := strings.SplitN(rec, ":", 3)
		if len(parts) < 3 {
			continue
		}
		id, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
		if err != nil {
			continue
		}
		out = append(out, domain.Manager{
			ID:    id,
			Name:  strings.TrimSpace(parts[1]),
			Email: strings.TrimSpace(parts[2]),
		})
	}
	return out
}
