package config

// FieldName identifies a known roster payload field (e.g. "combat_hp",
// "date_joined").
//
// Payloads may carry extra fields: those stay accessible through the generic
// record map, but only known fields can be referenced from configuration.
type FieldName string

// Identity fields.
const (
	FieldID       FieldName = "ID"
	FieldNameCode FieldName = "name_code"
	FieldCode     FieldName = "code"
	FieldNameReal FieldName = "name_real"
)

// Profile fields.
const (
	FieldDateJoined              FieldName = "date_joined"
	FieldDateBirth               FieldName = "date_birth"
	FieldPlaceBirth              FieldName = "place_birth"
	FieldGender                  FieldName = "gender"
	FieldHeight                  FieldName = "height"
	FieldSpecies                 FieldName = "species"
	FieldAffiliationLocation     FieldName = "affiliation_location"
	FieldAffiliationOrganization FieldName = "affiliation_organization"
	FieldAffiliationPrimary      FieldName = "affiliation_primary"
	FieldAffiliationSecondary    FieldName = "affiliation_secondary"
)

// Service record fields.
const (
	FieldClass            FieldName = "operatorRecords_class"
	FieldJob              FieldName = "operatorRecords_job"
	FieldRarity           FieldName = "operatorRecords_rarity"
	FieldExperienceCombat FieldName = "experience_combat"
)

// Medical file fields.
const (
	FieldMedicalFusion     FieldName = "medical_fusion"
	FieldMedicalBloodRatio FieldName = "medical_bloodRatio"
)

// Combat stat fields.
const (
	FieldCombatHP          FieldName = "combat_hp"
	FieldCombatATK         FieldName = "combat_atk"
	FieldCombatDEF         FieldName = "combat_def"
	FieldCombatRES         FieldName = "combat_res"
	FieldCombatCooldown    FieldName = "combat_cldn"
	FieldCombatCost        FieldName = "combat_cost"
	FieldCombatBlock       FieldName = "combat_blk"
	FieldCombatAttackSpeed FieldName = "combat_atkspd"
)

// Physical examination (skill rating) fields.
const (
	FieldSkillsStrength  FieldName = "skills_strength"
	FieldSkillsMobility  FieldName = "skills_mobility"
	FieldSkillsEndurance FieldName = "skills_endurance"
	FieldSkillsTactical  FieldName = "skills_tacticalAcumen"
	FieldSkillsCombat    FieldName = "skills_combat"
	FieldSkillsArts      FieldName = "skills_artsAdaptability"
)

// FieldAffiliationLabel is a synthetic field injected by the affiliation
// record-splitting transform; it never appears in payloads.
const FieldAffiliationLabel FieldName = "affiliation_label"

// FieldKind classifies how a field's values are consumed.
type FieldKind uint8

// Supported field kinds.
const (
	KindCategorical FieldKind = iota
	KindIdentity
	KindNumeric
	KindDate
	KindSkill
)

var fieldKinds = map[FieldName]FieldKind{
	FieldID:       KindIdentity,
	FieldNameCode: KindIdentity,
	FieldCode:     KindIdentity,
	FieldNameReal: KindIdentity,

	FieldDateJoined: KindDate,
	FieldDateBirth:  KindDate,

	FieldHeight:            KindNumeric,
	FieldExperienceCombat:  KindNumeric,
	FieldMedicalFusion:     KindNumeric,
	FieldMedicalBloodRatio: KindNumeric,

	FieldCombatHP:          KindNumeric,
	FieldCombatATK:         KindNumeric,
	FieldCombatDEF:         KindNumeric,
	FieldCombatRES:         KindNumeric,
	FieldCombatCooldown:    KindNumeric,
	FieldCombatCost:        KindNumeric,
	FieldCombatBlock:       KindNumeric,
	FieldCombatAttackSpeed: KindNumeric,

	FieldSkillsStrength:  KindSkill,
	FieldSkillsMobility:  KindSkill,
	FieldSkillsEndurance: KindSkill,
	FieldSkillsTactical:  KindSkill,
	FieldSkillsCombat:    KindSkill,
	FieldSkillsArts:      KindSkill,
}

// String returns the field name as a plain string.
func (m FieldName) String() string {
	return string(m)
}

// IsValid reports whether the field name is a known roster field.
func (m FieldName) IsValid() bool {
	for _, name := range AllFieldNames() {
		if m == name {
			return true
		}
	}

	return false
}

// Kind returns the field's value kind. Unlisted fields are categorical.
func (m FieldName) Kind() FieldKind {
	if kind, ok := fieldKinds[m]; ok {
		return kind
	}

	return KindCategorical
}

// AllFieldNames returns all known roster field names.
func AllFieldNames() []FieldName {
	return []FieldName{
		FieldID,
		FieldNameCode,
		FieldCode,
		FieldNameReal,
		FieldDateJoined,
		FieldDateBirth,
		FieldPlaceBirth,
		FieldGender,
		FieldHeight,
		FieldSpecies,
		FieldAffiliationLocation,
		FieldAffiliationOrganization,
		FieldAffiliationPrimary,
		FieldAffiliationSecondary,
		FieldClass,
		FieldJob,
		FieldRarity,
		FieldExperienceCombat,
		FieldMedicalFusion,
		FieldMedicalBloodRatio,
		FieldCombatHP,
		FieldCombatATK,
		FieldCombatDEF,
		FieldCombatRES,
		FieldCombatCooldown,
		FieldCombatCost,
		FieldCombatBlock,
		FieldCombatAttackSpeed,
		FieldSkillsStrength,
		FieldSkillsMobility,
		FieldSkillsEndurance,
		FieldSkillsTactical,
		FieldSkillsCombat,
		FieldSkillsArts,
		FieldAffiliationLabel,
	}
}
