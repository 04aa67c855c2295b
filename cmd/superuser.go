package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"user-accounts/internal/dto/request"
	"user-accounts/internal/usecase"
	"user-accounts/pkg/apperror"

	"go.uber.org/zap"
)

// CreateSuperuser parses the createsuperuser flags and creates a verified
// staff account.
func CreateSuperuser(ctx context.Context, auth usecase.AuthService, args []string, logger *zap.Logger) error {
	req, err := parseSuperuserFlags(args)
	if err != nil {
		return err
	}

	user, err := auth.CreateSuperuser(ctx, req)
	if err != nil {
		if fields := apperror.FieldErrors(err); fields != nil {
			return fmt.Errorf("create superuser: %v", fields)
		}
		return fmt.Errorf("create superuser: %w", err)
	}

	logger.Info("Superuser ready", zap.String("user_id", user.ID), zap.String("username", user.Username))
	return nil
}

func parseSuperuserFlags(args []string) (*request.SignUpRequest, error) {
	fs := flag.NewFlagSet("createsuperuser", flag.ContinueOnError)

	req := &request.SignUpRequest{}
	fs.StringVar(&req.Email, "email", "", "email address (required)")
	fs.StringVar(&req.Username, "username", "", "username (required)")
	fs.StringVar(&req.Password, "password", "", "password, 8 to 50 characters (required)")
	fs.StringVar(&req.Name, "name", "Administrator", "full name")
	fs.StringVar(&req.Gender, "gender", "unspecified", "gender")
	fs.StringVar(&req.DateOfBirth, "date-of-birth", "1970-01-01", "date of birth, YYYY-MM-DD")
	fs.StringVar(&req.Address, "address", "-", "postal address")
	fs.StringVar(&req.PhoneNumber, "phone", "", "phone number, defaults to the username")
	fs.StringVar(&req.LicenseNumber, "license", "", "license number, defaults to the username")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if req.Email == "" || req.Username == "" || req.Password == "" {
		fs.Usage()
		return nil, errors.New("-email, -username and -password are required")
	}

	// phone and license are unique, so derive them from the unique username
	if req.PhoneNumber == "" {
		req.PhoneNumber = truncate("su-"+req.Username, 13)
	}
	if req.LicenseNumber == "" {
		req.LicenseNumber = truncate("su-"+req.Username, 50)
	}

	return req, nil
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
