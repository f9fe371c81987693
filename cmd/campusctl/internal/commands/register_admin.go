package commands

import (
	"context"
	"fmt"

	"github.com/yigit/campusdesk/internal/app/models/dto"
	"github.com/yigit/campusdesk/internal/app/repositories/postgres"
	"github.com/yigit/campusdesk/internal/app/services"
	"github.com/yigit/campusdesk/internal/pkg/auth"
)

// RegisterAdminCmd creates the admin account. It fails once an admin exists.
type RegisterAdminCmd struct {
	Email    string `help:"admin login email" required:"" env:"ADMIN_EMAIL"`
	Password string `help:"admin password, at least 8 characters" required:"" env:"ADMIN_PASSWORD"`
}

func (r *RegisterAdminCmd) Run(ctx context.Context, globals *Globals) error {
	_, database, lgr, err := globals.open(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	admins := services.NewAdminService(postgres.NewStore(database), auth.NewPasswordHasher(auth.BcryptCost), lgr)
	account, err := admins.Register(ctx, dto.AdminRegisterRequest{Email: r.Email, Password: r.Password})
	if err != nil {
		return fmt.Errorf("failed to register admin: %w", err)
	}

	fmt.Printf("admin %s registered with id %d\n", account.Email, account.ID)
	return nil
}
