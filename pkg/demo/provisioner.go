package demo

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"condofacil_backend/internal/model"
)

// DemoWindowDays is the fixed lifetime of a demo condo.
const DemoWindowDays = 7

// CreateDemoCondo provisions an isolated demo tenant pre-populated with
// sample units, a notice and an occurrence. The condo, its seed rows and the
// operator session commit as a single transaction: a failed insert leaves
// nothing behind.
func CreateDemoCondo(db *gorm.DB, operatorEmail, name string) (*model.Condo, *model.DemoSession, error) {
	now := time.Now()
	expiresAt := now.AddDate(0, 0, DemoWindowDays)

	condo := model.Condo{
		Name:           name,
		Slug:           fmt.Sprintf("%s-%s", slug.Make(name), uuid.New().String()[:8]),
		Status:         model.CondoStatusDemo,
		IsDemo:         true,
		TrialStartedAt: &now,
		TrialEndsAt:    &expiresAt,
	}

	session := model.DemoSession{
		OperatorEmail: operatorEmail,
		Token:         uuid.New().String(),
		ExpiresAt:     expiresAt,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		// demo condos resolve features against the mid-tier plan
		var plan model.Plan
		if err := tx.Where("name = ?", "Profissional").First(&plan).Error; err == nil {
			condo.PlanID = &plan.ID
		}

		if err := tx.Create(&condo).Error; err != nil {
			return err
		}
		if err := seedDemoData(tx, condo.ID); err != nil {
			return err
		}

		session.CondoID = condo.ID
		return tx.Create(&session).Error
	})
	if err != nil {
		return nil, nil, err
	}

	return &condo, &session, nil
}

// ResetDemoCondo wipes the content of a demo condo and re-inserts the sample
// set, so a salesperson can hand the same environment to the next prospect.
func ResetDemoCondo(db *gorm.DB, condoID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var condo model.Condo
		if err := tx.First(&condo, condoID).Error; err != nil {
			return err
		}
		if !condo.IsDemo {
			return gorm.ErrRecordNotFound
		}

		for _, m := range []interface{}{
			&model.VisitorLog{},
			&model.Occurrence{},
			&model.Notice{},
			&model.Unit{},
		} {
			if err := tx.Where("condo_id = ?", condoID).Delete(m).Error; err != nil {
				return err
			}
		}

		return seedDemoData(tx, condoID)
	})
}

func seedDemoData(tx *gorm.DB, condoID uint) error {
	units := []model.Unit{
		{CondoID: condoID, Block: "A", Number: "101", Floor: 1},
		{CondoID: condoID, Block: "A", Number: "102", Floor: 1},
		{CondoID: condoID, Block: "B", Number: "201", Floor: 2},
	}
	if err := tx.Create(&units).Error; err != nil {
		return err
	}

	published := time.Now()
	notice := model.Notice{
		CondoID:     condoID,
		Title:       "Bem-vindo ao Condomínio Fácil",
		Slug:        "bem-vindo-ao-condominio-facil",
		Body:        "Este é um ambiente de demonstração. Explore o mural, a portaria e as assembleias.",
		Pinned:      true,
		PublishedAt: &published,
	}
	if err := tx.Create(&notice).Error; err != nil {
		return err
	}

	occurrence := model.Occurrence{
		CondoID:     condoID,
		UnitID:      &units[0].ID,
		Title:       "Vazamento na garagem",
		Description: "Exemplo de ocorrência registrada por um morador.",
		Category:    "manutencao",
		Status:      model.OccurrenceStatusOpen,
	}
	return tx.Create(&occurrence).Error
}
