package seed

import (
	"log"

	"gorm.io/gorm"

	"condofacil_backend/internal/model"
)

// Feature keys referenced across the codebase.
const (
	FeatureChatSindico          = "chat_sindico"
	FeaturePortariaDigital      = "portaria_digital"
	FeatureAssembleiasOnline    = "assembleias_online"
	FeatureBoletoIntegrado      = "boleto_integrado"
	FeatureReservaEspacos       = "reserva_espacos"
	FeatureSuportePrioritario   = "suporte_prioritario"
	FeatureReconhecimentoFacial = "reconhecimento_facial"
)

func SeedPlans(db *gorm.DB) {
	plans := []model.Plan{
		{
			Name:            "Basico",
			Description:     "Para condomínios pequenos",
			MonthlyPrice:    99.90,
			StripeProductID: "prod_condofacil_basico",
			StripePriceID:   "price_condofacil_basico",
		},
		{
			Name:            "Profissional",
			Description:     "Para condomínios de médio porte",
			MonthlyPrice:    199.90,
			StripeProductID: "prod_condofacil_pro",
			StripePriceID:   "price_condofacil_pro",
		},
		{
			Name:            "Enterprise",
			Description:     "Para administradoras e grandes condomínios",
			MonthlyPrice:    499.90,
			StripeProductID: "prod_condofacil_enterprise",
			StripePriceID:   "price_condofacil_enterprise",
		},
	}

	for _, plan := range plans {
		result := db.FirstOrCreate(&plan, model.Plan{Name: plan.Name})
		if result.Error != nil {
			log.Printf("Error creating plan %s: %v", plan.Name, result.Error)
		}
	}

	log.Println("Plans seeded successfully!")
}

func SeedFeatureCatalog(db *gorm.DB) {
	features := []model.FeatureFlag{
		{Key: FeatureChatSindico, Name: "Chat com o síndico", IsAvailable: true},
		{Key: FeaturePortariaDigital, Name: "Portaria digital", IsAvailable: true},
		{Key: FeatureAssembleiasOnline, Name: "Assembleias online", IsAvailable: true},
		{Key: FeatureBoletoIntegrado, Name: "Boleto integrado", IsAvailable: true},
		{Key: FeatureReservaEspacos, Name: "Reserva de espaços", IsAvailable: true},
		{Key: FeatureSuportePrioritario, Name: "Suporte prioritário", IsAvailable: true},
		// integration is still a stub; listed in the catalog but nobody can
		// turn it on
		{Key: FeatureReconhecimentoFacial, Name: "Reconhecimento facial", IsAvailable: false},
	}

	for _, feature := range features {
		result := db.FirstOrCreate(&feature, model.FeatureFlag{Key: feature.Key})
		if result.Error != nil {
			log.Printf("Error creating feature %s: %v", feature.Key, result.Error)
		}
	}

	log.Println("Feature catalog seeded successfully!")
}

// planMatrix maps plan name -> feature key -> enabled by default. A feature
// missing from a plan's row is simply not offered on that plan.
var planMatrix = map[string]map[string]bool{
	"Basico": {
		FeatureChatSindico:     false,
		FeaturePortariaDigital: false,
		FeatureBoletoIntegrado: false,
	},
	"Profissional": {
		FeatureChatSindico:       true,
		FeaturePortariaDigital:   true,
		FeatureAssembleiasOnline: false,
		FeatureBoletoIntegrado:   true,
		FeatureReservaEspacos:    false,
	},
	"Enterprise": {
		FeatureChatSindico:          true,
		FeaturePortariaDigital:      true,
		FeatureAssembleiasOnline:    true,
		FeatureBoletoIntegrado:      true,
		FeatureReservaEspacos:       true,
		FeatureSuportePrioritario:   true,
		FeatureReconhecimentoFacial: false,
	},
}

func SeedPlanFeatures(db *gorm.DB) {
	for planName, features := range planMatrix {
		var plan model.Plan
		if err := db.Where("name = ?", planName).First(&plan).Error; err != nil {
			log.Printf("Plan %s not found, skipping feature matrix: %v", planName, err)
			continue
		}

		for key, enabled := range features {
			var flag model.FeatureFlag
			if err := db.Where("key = ?", key).First(&flag).Error; err != nil {
				log.Printf("Feature %s not found: %v", key, err)
				continue
			}

			pf := model.PlanFeature{
				PlanID:           plan.ID,
				FeatureFlagID:    flag.ID,
				EnabledByDefault: enabled,
				CanBeToggled:     flag.IsAvailable,
			}
			result := db.FirstOrCreate(&pf, model.PlanFeature{
				PlanID:        plan.ID,
				FeatureFlagID: flag.ID,
			})
			if result.Error != nil {
				log.Printf("Error creating plan feature %s/%s: %v", planName, key, result.Error)
			}
		}
	}

	log.Println("Plan feature matrix seeded successfully!")
}

func SeedAll(db *gorm.DB) {
	SeedPlans(db)
	SeedFeatureCatalog(db)
	SeedPlanFeatures(db)
}
