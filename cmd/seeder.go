package cmd

import (
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		if clearData {
			for _, table := range []string{"employee_projects", "users", "employees", "projects", "departments"} {
				if _, err := db.Exec("DELETE FROM " + table); err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		seedDepartments(db)
		seedProjects(db)
		seedAdmin(db, cfg.Security.BCryptCost)

		fmt.Println("Seeding complete")
	},
}

func seedDepartments(db *sqlx.DB) {
	departments := []struct {
		Name string
		Desc string
	}{
		{"Engineering", "Product and platform development"},
		{"Human Resources", "People operations"},
		{"Finance", "Accounting and payroll"},
	}

	for _, d := range departments {
		var exists int
		err := db.QueryRow("SELECT 1 FROM departments WHERE name = $1", d.Name).Scan(&exists)
		if err == nil {
			continue
		}
		if _, err := db.Exec(
			"INSERT INTO departments (name, description, created_at, updated_at) VALUES ($1, $2, now(), now())",
			d.Name, d.Desc); err != nil {
			log.Fatalf("failed to insert department %s: %v", d.Name, err)
		}
		fmt.Println("Seeded department:", d.Name)
	}
}

func seedProjects(db *sqlx.DB) {
	projects := []struct {
		Name   string
		Desc   string
		Status string
	}{
		{"Apollo", "Customer portal rebuild", "Active"},
		{"Borealis", "Internal reporting pipeline", "Planned"},
	}

	for _, p := range projects {
		var exists int
		err := db.QueryRow("SELECT 1 FROM projects WHERE name = $1", p.Name).Scan(&exists)
		if err == nil {
			continue
		}
		if _, err := db.Exec(
			"INSERT INTO projects (name, description, status, start_date, created_at, updated_at) VALUES ($1, $2, $3, now(), now(), now())",
			p.Name, p.Desc, p.Status); err != nil {
			log.Fatalf("failed to insert project %s: %v", p.Name, err)
		}
		fmt.Println("Seeded project:", p.Name)
	}
}

func seedAdmin(db *sqlx.DB, bcryptCost int) {
	adminEmail := "admin@mail.com"

	var exists int
	if err := db.QueryRow("SELECT 1 FROM users WHERE email = $1", adminEmail).Scan(&exists); err == nil {
		fmt.Println("admin user already exists:", adminEmail)
		return
	}

	if bcryptCost <= 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcryptCost)
	if err != nil {
		log.Fatalf("failed to hash admin password: %v", err)
	}

	if _, err := db.Exec(
		"INSERT INTO users (username, email, password_hash, role, created_at, updated_at) VALUES ($1, $2, $3, $4, now(), now())",
		"Admin", adminEmail, string(hash), "Admin"); err != nil {
		log.Fatalf("failed to insert admin user: %v", err)
	}

	fmt.Println("Seeded admin user:", adminEmail)
}
