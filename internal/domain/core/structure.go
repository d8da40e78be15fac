package core

import "slices"

// Structure is the partner organisation a conseiller or a jeune belongs to.
type Structure string

const (
	StructureMilo                   Structure = "MILO"
	StructurePoleEmploi             Structure = "POLE_EMPLOI"
	StructurePassEmploi             Structure = "PASS_EMPLOI"
	StructurePoleEmploiBRSA         Structure = "POLE_EMPLOI_BRSA"
	StructurePoleEmploiAIJ          Structure = "POLE_EMPLOI_AIJ"
	StructureConseilDepartemental   Structure = "CONSEIL_DEPT"
	StructureAvenirPro              Structure = "AVENIR_PRO"
	StructureAccompagnementIntensif Structure = "FT_ACCOMPAGNEMENT_INTENSIF"
	StructureAccompagnementGlobal   Structure = "FT_ACCOMPAGNEMENT_GLOBAL"
	StructureEquipEmploiRecrut      Structure = "FT_EQUIP_EMPLOI_RECRUT"
)

var (
	structuresPoleEmploi = []Structure{
		StructurePoleEmploi,
		StructurePoleEmploiBRSA,
		StructurePoleEmploiAIJ,
		StructureConseilDepartemental,
		StructureAvenirPro,
		StructureAccompagnementIntensif,
		StructureAccompagnementGlobal,
		StructureEquipEmploiRecrut,
	}
	structuresPoleEmploiBRSA = []Structure{
		StructurePoleEmploiBRSA,
		StructurePoleEmploiAIJ,
		StructureConseilDepartemental,
		StructureAvenirPro,
		StructureAccompagnementIntensif,
		StructureAccompagnementGlobal,
		StructureEquipEmploiRecrut,
	}
)

// IsValid reports whether s is a known structure.
func (s Structure) IsValid() bool {
	return s == StructureMilo || s == StructurePassEmploi || slices.Contains(structuresPoleEmploi, s)
}

func EstMilo(s Structure) bool {
	return s == StructureMilo
}

// EstMiloPassEmploi covers the structures sharing the Milo agences.
func EstMiloPassEmploi(s Structure) bool {
	return s == StructureMilo || s == StructurePassEmploi
}

// EstPoleEmploi reports whether s is served by the France Travail information system.
func EstPoleEmploi(s Structure) bool {
	return slices.Contains(structuresPoleEmploi, s)
}

// EstBRSA reports whether s is one of the accompaniments derived from the BRSA offer.
func EstBRSA(s Structure) bool {
	return slices.Contains(structuresPoleEmploiBRSA, s)
}
