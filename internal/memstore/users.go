package memstore

import (
	"context"
	"fmt"

	"github.com/pkordes/hotel-booking/internal/domain"
)

type userRepo struct{ base }

func (r *userRepo) Create(_ context.Context, u domain.User) (domain.User, error) {
	defer r.lock()()
	for _, existing := range r.s.st.users {
		if existing.Username == u.Username {
			return domain.User{}, fmt.Errorf("memstore.UserRepo.Create: %w: username", domain.ErrDuplicate)
		}
		if existing.Email == u.Email {
			return domain.User{}, fmt.Errorf("memstore.UserRepo.Create: %w: email", domain.ErrDuplicate)
		}
	}
	u.ID = r.s.st.id()
	u.CreatedAt = r.s.now().UTC()
	r.s.st.users[u.ID] = u
	return u, nil
}

func (r *userRepo) GetByUsername(_ context.Context, username string) (domain.User, error) {
	defer r.lock()()
	for _, u := range r.s.st.users {
		if u.Username == username {
			return u, nil
		}
	}
	return domain.User{}, fmt.Errorf("memstore.UserRepo.GetByUsername: %w", domain.ErrNotFound)
}

func (r *userRepo) GetByID(_ context.Context, id int64) (domain.User, error) {
	defer r.lock()()
	u, ok := r.s.st.users[id]
	if !ok {
		return domain.User{}, fmt.Errorf("memstore.UserRepo.GetByID: %w", domain.ErrNotFound)
	}
	return u, nil
}
