package user

import "context"

// Repository abstracts user persistence. Create assigns both IDs; backends
// enforce uniqueness of Number and keep UserNo sequential.
type Repository interface {
	Create(ctx context.Context, fullName, username, number, role string) (User, error)
	FindByNumber(ctx context.Context, number string) (User, bool, error)
	FindByUserNo(ctx context.Context, userNo int64) (User, bool, error)
	List(ctx context.Context) ([]User, error)
}
