package db

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/clinic-server/internal/config"
	"github.com/BruksfildServices01/clinic-server/internal/models"
)

const seedPassword = "123456"

type seedDoctor struct {
	id, username, name, department, title string
}

var seedDoctors = []seedDoctor{
	{"120001", "doctor_zhang", "Zhang Wei", "Internal Medicine", "Chief Physician"},
	{"120002", "doctor_li", "Li Na", "Pediatrics", "Associate Chief Physician"},
	{"120003", "doctor_wang", "Wang Fang", "Dermatology", "Attending"},
}

var seedPatients = []struct {
	id, username, name string
}{
	{"110001", "patient_chen", "Chen Jie"},
	{"110002", "patient_liu", "Liu Yang"},
	{"110003", "patient_zhao", "Zhao Min"},
}

var seedMedicines = []models.Medicine{
	{Name: "Amoxicillin Capsules", Form: "capsule", Specification: "0.25g x 24", Manufacturer: "North China Pharmaceutical", Price: 18.5, Indications: "bacterial infections"},
	{Name: "Ibuprofen Sustained-release Capsules", Form: "capsule", Specification: "0.3g x 20", Manufacturer: "Tianjin Smith Kline", Price: 22.0, Indications: "pain, fever"},
	{Name: "Loratadine Tablets", Form: "tablet", Specification: "10mg x 6", Manufacturer: "Bayer", Price: 15.8, Indications: "allergic rhinitis, urticaria"},
	{Name: "Compound Licorice Tablets", Form: "tablet", Specification: "100 tablets", Manufacturer: "Guangzhou Baiyunshan", Price: 8.0, Indications: "cough"},
	{Name: "Omeprazole Enteric-coated Capsules", Form: "capsule", Specification: "20mg x 14", Manufacturer: "AstraZeneca", Price: 32.0, Indications: "gastric ulcer, reflux"},
}

// Seed inserts demo doctors, patients and the medicine catalog.
// Existing rows are left untouched.
func Seed(db *gorm.DB, cfg *config.Config) error {
	password := seedPassword
	if cfg.PasswordMode == config.PasswordBcrypt {
		hashed, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash seed password: %w", err)
		}
		password = string(hashed)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		ignore := clause.OnConflict{DoNothing: true}

		for _, d := range seedDoctors {
			u := models.User{ID: d.id, Username: d.username, Password: password, Role: models.RoleDoctor, RealName: d.name}
			if err := tx.Clauses(ignore).Create(&u).Error; err != nil {
				return fmt.Errorf("seed user %s: %w", d.id, err)
			}
			doc := models.Doctor{UserID: d.id, Department: d.department, Title: d.title, Fee: 100}
			if err := tx.Clauses(ignore).Omit("User").Create(&doc).Error; err != nil {
				return fmt.Errorf("seed doctor %s: %w", d.id, err)
			}
		}

		for _, p := range seedPatients {
			u := models.User{ID: p.id, Username: p.username, Password: password, Role: models.RolePatient, RealName: p.name}
			if err := tx.Clauses(ignore).Create(&u).Error; err != nil {
				return fmt.Errorf("seed user %s: %w", p.id, err)
			}
			pat := models.Patient{UserID: p.id}
			if err := tx.Clauses(ignore).Omit("User").Create(&pat).Error; err != nil {
				return fmt.Errorf("seed patient %s: %w", p.id, err)
			}
		}

		for i := range seedMedicines {
			m := seedMedicines[i]
			if err := tx.Clauses(ignore).Create(&m).Error; err != nil {
				return fmt.Errorf("seed medicine %s: %w", m.Name, err)
			}
		}

		return nil
	})
}
