package api

import (
	"bytes"
	"context"
	"net/http"
)

const notBlocking = "You are not blocking this user."

func (s BlocksService) changeBlock(ctx context.Context, path string, user UserRef) (*User, error) {
	if err := s.requireAuthorization(http.MethodPost, path); err != nil {
		return nil, err
	}
	params, err := user.params()
	if err != nil {
		return nil, err
	}
	return one[User](s.post(ctx, path, s.withEntities(params)))
}

// Create blocks a user and returns them.
func (s BlocksService) Create(ctx context.Context, user UserRef) (*User, error) {
	return s.changeBlock(ctx, "blocks/create.json", user)
}

// Destroy unblocks a user and returns them.
func (s BlocksService) Destroy(ctx context.Context, user UserRef) (*User, error) {
	return s.changeBlock(ctx, "blocks/destroy.json", user)
}

// ReportSpam blocks a user and reports them for spam.
func (s BlocksService) ReportSpam(ctx context.Context, user UserRef) (*User, error) {
	return s.changeBlock(ctx, "report_spam.json", user)
}

// Exists reports whether the authenticated user blocks user. The service
// says there is no block with a 404 or with a 200 carrying notBlocking.
func (s BlocksService) Exists(ctx context.Context, user UserRef) (bool, error) {
	const path = "blocks/exists.json"
	if err := s.requireAuthorization(http.MethodGet, path); err != nil {
		return false, err
	}
	params, err := user.params()
	if err != nil {
		return false, err
	}
	r, err := s.get(ctx, path, s.withEntities(params))
	if IsNotFound(err) {
		return false, nil
	}
	if err == nil && bytes.Contains(r.resp.Body, []byte(notBlocking)) {
		return false, nil
	}
	if _, err := one[User](r, err); err != nil {
		return false, err
	}
	return true, nil
}

// Blocking returns a page of blocked users. Page 0 means the first page.
func (s BlocksService) Blocking(ctx context.Context, page int) ([]User, error) {
	const path = "blocks/blocking.json"
	if err := s.requireAuthorization(http.MethodGet, path); err != nil {
		return nil, err
	}
	return list[User](s.get(ctx, path, s.withEntities(pageParams(page))))
}

// BlockingIDs returns the ids of all blocked users.
func (s BlocksService) BlockingIDs(ctx context.Context) (*IDs, error) {
	const path = "blocks/blocking/ids.json"
	if err := s.requireAuthorization(http.MethodGet, path); err != nil {
		return nil, err
	}
	return ids(s.get(ctx, path, nil))
}
