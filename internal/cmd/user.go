package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/PauloHFS/skystore/internal/policies"
	"github.com/PauloHFS/skystore/internal/services"
	"github.com/PauloHFS/skystore/internal/token"
	"github.com/PauloHFS/skystore/internal/validator"
)

// RunCreateSuperuser cria uma conta ativa com todas as permissões.
func RunCreateSuperuser() {
	createAccount("create-superuser", services.AccountOptions{Superuser: true})
}

// RunCreateManager cria uma conta staff no grupo de gerentes.
func RunCreateManager() {
	createAccount("create-manager", services.AccountOptions{Staff: true, Groups: []string{policies.ManagerGroup}})
}

func createAccount(command string, opts services.AccountOptions) {
	if len(os.Args) < 4 {
		fmt.Printf("Usage: %s <email> <password>\n", command)
		os.Exit(1)
	}
	email, password := os.Args[2], os.Args[3]

	cfg, pool, err := initDB()
	if err != nil {
		fatal("failed to init database", err)
	}
	defer pool.Close()

	file, err := policies.LoadFile(cfg.PolicyFile)
	if err != nil {
		fatal("failed to load policy file", err)
	}
	authz, err := policies.NewAuthorizerFromFile(file)
	if err != nil {
		fatal("invalid policy file", err)
	}

	users := services.NewUserService(pool, token.NewIssuer(cfg.SessionSecret, time.Hour), authz, cfg.BaseURL)
	u, err := users.CreateAccount(context.Background(), email, password, opts)
	if err != nil {
		var fe *validator.FormError
		if errors.As(err, &fe) {
			for field, msg := range fe.Fields {
				fmt.Printf("%s: %s\n", field, msg)
			}
		} else {
			fmt.Printf("failed to create user: %v\n", err)
		}
		os.Exit(1)
	}
	fmt.Printf("User %s created successfully (id %d)\n", u.Email, u.ID)
}
