package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/fredtinotenda3/LinkOpticians/internal/config"
	"github.com/fredtinotenda3/LinkOpticians/internal/domain/catalog"
	"github.com/fredtinotenda3/LinkOpticians/internal/domain/optician"
	"github.com/fredtinotenda3/LinkOpticians/internal/platform/db"
)

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the initial branches, services and opticians",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			return runSeed(ctx, pool)
		},
	}
}

func strPtr(s string) *string { return &s }

var branchSeeds = []catalog.Branch{
	{
		Name:           "Robinson House",
		Address:        "Robinson House, Cnr Kwame Nkrumah Ave & Angwa St, Harare",
		Phone:          "+263 242 751 234",
		Email:          "robinson@linkopticians.co.zw",
		OperatingHours: "Mon-Fri: 08:00-17:00, Sat: 08:00-13:00",
	},
	{
		Name:           "Construction House",
		Address:        "Construction House, Leopold Takawira St, Harare",
		Phone:          "+263 242 753 456",
		Email:          "construction@linkopticians.co.zw",
		OperatingHours: "Mon-Fri: 08:00-17:00, Sat: 08:00-13:00",
	},
	{
		Name:           "Greendale",
		Address:        "Greendale Shopping Centre, Greendale Ave, Harare",
		Phone:          "+263 242 495 678",
		Email:          "greendale@linkopticians.co.zw",
		OperatingHours: "Mon-Fri: 08:00-17:00, Sat: 08:00-13:00",
	},
	{
		Name:           "Chiredzi",
		Address:        "Marula Drive, Chiredzi",
		Phone:          "+263 231 231 2345",
		Email:          "chiredzi@linkopticians.co.zw",
		OperatingHours: "Mon-Fri: 08:00-17:00, Sat: 08:00-12:00",
	},
	{
		Name:           "Chipinge",
		Address:        "Main Street, Chipinge",
		Phone:          "+263 227 722 3456",
		Email:          "chipinge@linkopticians.co.zw",
		OperatingHours: "Mon-Fri: 08:00-17:00, Sat: 08:00-12:00",
	},
}

var serviceSeeds = []catalog.Service{
	{
		Name:        "Eye Examination",
		Description: strPtr("Comprehensive eye examination including visual acuity, refraction and eye health assessment"),
		Duration:    30,
		Price:       50,
		IsActive:    true,
	},
	{
		Name:        "Contact Lens Fitting",
		Description: strPtr("Contact lens consultation, fitting and aftercare instruction"),
		Duration:    45,
		Price:       35,
		IsActive:    true,
	},
	{
		Name:        "Spectacles Dispensing",
		Description: strPtr("Frame selection, lens recommendation and spectacle fitting"),
		Duration:    20,
		Price:       25,
		IsActive:    true,
	},
	{
		Name:        "Low Vision Services",
		Description: strPtr("Assessment and management for patients with reduced vision"),
		Duration:    60,
		Price:       75,
		IsActive:    true,
	},
	{
		Name:        "Repairs & Adjustments",
		Description: strPtr("Spectacle frame repairs, adjustments and part replacements"),
		Duration:    15,
		Price:       15,
		IsActive:    true,
	},
}

// Three opticians per branch: two optometrists and a dispensing optician,
// matching the roster the clinics actually run.
var opticianFirstNames = [][3]string{
	{"Tendai", "Rumbidzai", "Blessing"},
	{"Tapiwa", "Chipo", "Farai"},
	{"Kudzai", "Nyasha", "Tinashe"},
	{"Simba", "Ruvimbo", "Munashe"},
	{"Tatenda", "Vimbai", "Takudzwa"},
}

var opticianSpecialties = [3]string{"General", "Contact Lenses", "Low Vision"}

func runSeed(ctx context.Context, pool *pgxpool.Pool) error {
	branchRepo := catalog.NewBranchRepoPG(pool)
	serviceRepo := catalog.NewServiceRepoPG(pool)
	opticianRepo := optician.NewRepoPG(pool)
	hoursRepo := optician.NewWorkingHoursRepoPG(pool)
	timeOffRepo := optician.NewTimeOffRepoPG(pool)

	existing, err := branchRepo.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		fmt.Println("Database already contains branches; skipping seed.")
		return nil
	}

	catalogSvc := catalog.NewCatalog(branchRepo, serviceRepo)
	opticianSvc := optician.NewService(opticianRepo, hoursRepo, timeOffRepo, nil)

	for i := range branchSeeds {
		b := branchSeeds[i]
		if err := catalogSvc.CreateBranch(ctx, &b); err != nil {
			return fmt.Errorf("seed branch %s: %w", b.Name, err)
		}
		branchSeeds[i].ID = b.ID
	}
	fmt.Printf("Created %d branches.\n", len(branchSeeds))

	for i := range serviceSeeds {
		s := serviceSeeds[i]
		if err := catalogSvc.CreateService(ctx, &s); err != nil {
			return fmt.Errorf("seed service %s: %w", s.Name, err)
		}
	}
	fmt.Printf("Created %d services.\n", len(serviceSeeds))

	created := 0
	for i, b := range branchSeeds {
		firsts := opticianFirstNames[i%len(opticianFirstNames)]
		names := [3]string{
			"Dr. " + firsts[0] + " Moyo",
			"Dr. " + firsts[1] + " Ndlovu",
			"Optician " + firsts[2] + " Chikowore",
		}
		saturdayEnd := "13:00"
		if strings.Contains(b.OperatingHours, "08:00-12:00") {
			saturdayEnd = "12:00"
		}
		for j, name := range names {
			specialty := opticianSpecialties[j]
			o := &optician.Optician{
				Name:      name,
				Email:     emailFor(name),
				Phone:     fmt.Sprintf("+263 77 %d%d23 456%d", i+1, j+2, j),
				Specialty: &specialty,
				IsActive:  true,
				BranchID:  b.ID,
			}
			if err := opticianSvc.Create(ctx, o); err != nil {
				return fmt.Errorf("seed optician %s: %w", name, err)
			}
			if err := opticianSvc.ReplaceWorkingHours(ctx, o.ID, defaultWorkingHours(saturdayEnd)); err != nil {
				return fmt.Errorf("seed working hours for %s: %w", name, err)
			}
			created++
		}
	}
	fmt.Printf("Created %d opticians with weekday templates.\n", created)
	return nil
}

// defaultWorkingHours builds the standard weekday template: Monday through
// Friday full day, Saturday morning, no Sunday row.
func defaultWorkingHours(saturdayEnd string) []*optician.WorkingHours {
	hours := make([]*optician.WorkingHours, 0, 6)
	for day := 1; day <= 5; day++ {
		hours = append(hours, &optician.WorkingHours{
			DayOfWeek:   day,
			StartTime:   "08:00",
			EndTime:     "17:00",
			IsAvailable: true,
		})
	}
	hours = append(hours, &optician.WorkingHours{
		DayOfWeek:   6,
		StartTime:   "08:00",
		EndTime:     saturdayEnd,
		IsAvailable: true,
	})
	return hours
}

func emailFor(name string) string {
	name = strings.TrimPrefix(name, "Dr. ")
	name = strings.TrimPrefix(name, "Optician ")
	return strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@linkopticians.co.zw"
}
