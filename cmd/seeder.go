package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/frahmantamala/rbac-management/internal"
	"github.com/frahmantamala/rbac-management/internal/assignment"
	"github.com/frahmantamala/rbac-management/internal/core/database"
	"github.com/frahmantamala/rbac-management/internal/core/datamodel/rbac"
	"github.com/frahmantamala/rbac-management/internal/permission"
	"github.com/frahmantamala/rbac-management/internal/role"
	"github.com/frahmantamala/rbac-management/internal/user"
	"github.com/frahmantamala/rbac-management/pkg/logger"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample users, roles and permissions for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		lg := logger.LoggerWrapper()
		db, err := database.Open(cfg.Database, lg)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		if clearData {
			if err := clearTables(db.Gorm); err != nil {
				log.Fatalf("failed to clear data: %v", err)
			}
			fmt.Println("Cleared existing data")
		}

		if err := seed(cmd.Context(), newServices(db.Gorm, lg)); err != nil {
			log.Fatalf("failed to seed: %v", err)
		}
		fmt.Println("Seeding complete")
	},
}

type seedRole struct {
	Name        string
	Department  string
	Permissions []seedPermission
}

type seedPermission struct {
	Name     string
	Action   string
	Resource string
}

type seedUser struct {
	Email    string
	Username string
	Roles    []string
}

var (
	seedRoles = []seedRole{
		{
			Name:       "Admin",
			Department: "Engineering",
			Permissions: []seedPermission{
				{"create-user", "create", "user"},
				{"read-user", "read", "user"},
				{"update-user", "update", "user"},
				{"delete-user", "delete", "user"},
				{"manage-roles", "manage", "role"},
			},
		},
		{
			Name:       "Viewer",
			Department: "Support",
			Permissions: []seedPermission{
				{"read-role", "read", "role"},
			},
		},
	}

	// permissions granted to roles beyond the ones they own
	seedRoleGrants = map[string][]string{
		"Viewer": {"read-user"},
	}

	seedUsers = []seedUser{
		{Email: "padil@mail.com", Username: "padil", Roles: []string{"Admin", "Viewer"}},
		{Email: "fadhil@mail.com", Username: "fadhil", Roles: []string{"Viewer"}},
	}
)

func seed(ctx context.Context, svc *Services) error {
	roleIDs := make(map[string]string, len(seedRoles))
	permissionIDs := make(map[string]string)

	for _, sr := range seedRoles {
		r, err := ensureRole(ctx, svc.Role, sr)
		if err != nil {
			return err
		}
		roleIDs[sr.Name] = r.ID

		for _, sp := range sr.Permissions {
			p, err := ensurePermission(ctx, svc.Permission, sp, r.ID)
			if err != nil {
				return err
			}
			permissionIDs[sp.Name] = p.ID
		}
	}

	for roleName, perms := range seedRoleGrants {
		for _, permName := range perms {
			if _, err := svc.Assignment.AssignPermissionToRole(ctx, roleIDs[roleName], permissionIDs[permName]); err != nil {
				return fmt.Errorf("grant %s to %s: %w", permName, roleName, err)
			}
		}
	}

	for _, su := range seedUsers {
		u, err := ensureUser(ctx, svc.User, su)
		if err != nil {
			return err
		}
		for _, roleName := range su.Roles {
			dto := assignment.AssignRoleDTO{UserID: u.ID, RoleID: roleIDs[roleName]}
			if _, err := svc.Assignment.AssignRole(ctx, dto); err != nil {
				return fmt.Errorf("assign %s to %s: %w", roleName, su.Username, err)
			}
		}
		fmt.Println("Seeded user:", su.Email)
	}

	return nil
}

func ensureRole(ctx context.Context, svc *role.Service, sr seedRole) (*role.Role, error) {
	existing, err := svc.GetByName(ctx, sr.Name)
	if err == nil {
		return existing, nil
	}
	if !internal.IsNotFound(err) {
		return nil, err
	}

	department := sr.Department
	return svc.Create(ctx, role.CreateRoleDTO{Name: sr.Name, Department: &department})
}

func ensurePermission(ctx context.Context, svc *permission.Service, sp seedPermission, roleID string) (*permission.Permission, error) {
	existing, err := svc.GetByName(ctx, sp.Name)
	if err == nil {
		return existing, nil
	}
	if !internal.IsNotFound(err) {
		return nil, err
	}

	return svc.Create(ctx, permission.CreatePermissionDTO{
		Name:     sp.Name,
		Action:   sp.Action,
		Resource: sp.Resource,
		RoleID:   &roleID,
	})
}

func ensureUser(ctx context.Context, svc *user.Service, su seedUser) (*user.User, error) {
	existing, err := svc.GetByEmail(ctx, su.Email)
	if err == nil {
		return existing, nil
	}
	if !internal.IsNotFound(err) {
		return nil, err
	}

	return svc.Create(ctx, user.CreateUserDTO{Email: su.Email, Username: su.Username})
}

// clearTables deletes every row, children first so foreign keys hold.
func clearTables(db *gorm.DB) error {
	models := rbac.Models()
	for i := len(models) - 1; i >= 0; i-- {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(models[i]).Error; err != nil {
			return err
		}
	}
	return nil
}
