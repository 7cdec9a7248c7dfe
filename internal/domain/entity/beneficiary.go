package entity

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// AssetType discrimina la variante de BeneficiaryData.
type AssetType string

const (
	AssetVehicle  AssetType = "VEHICULO"
	AssetPerson   AssetType = "PERSONA"
	AssetProperty AssetType = "PROPIEDAD"
	AssetHealth   AssetType = "SALUD"
	AssetOther    AssetType = "OTRO"
)

// VehicleData bien asegurado de tipo vehículo.
type VehicleData struct {
	Plate        string          `json:"plate"`
	Brand        string          `json:"brand"`
	Model        string          `json:"model"`
	Year         int             `json:"year"`
	Chassis      string          `json:"chassis,omitempty"`
	InsuredValue decimal.Decimal `json:"insured_value"`
}

// PersonData asegurado persona (vida, accidentes).
type PersonData struct {
	FullName     string    `json:"full_name"`
	DocumentID   string    `json:"document_id"`
	BirthDate    time.Time `json:"birth_date"`
	Relationship string    `json:"relationship,omitempty"`
}

// PropertyData inmueble asegurado.
type PropertyData struct {
	Address          string          `json:"address"`
	PropertyType     string          `json:"property_type"`
	ConstructionYear int             `json:"construction_year,omitempty"`
	InsuredValue     decimal.Decimal `json:"insured_value"`
}

// HealthData plan de salud.
type HealthData struct {
	FullName   string    `json:"full_name"`
	DocumentID string    `json:"document_id"`
	BirthDate  time.Time `json:"birth_date"`
	PlanType   string    `json:"plan_type"`
	Dependents int       `json:"dependents"`
}

// OtherData cualquier otro bien.
type OtherData struct {
	Description  string          `json:"description"`
	InsuredValue decimal.Decimal `json:"insured_value"`
}

// BeneficiaryData unión etiquetada por tipo de bien. Solo la variante que corresponde
// a Type puede estar presente.
type BeneficiaryData struct {
	Type     AssetType
	Vehicle  *VehicleData
	Person   *PersonData
	Property *PropertyData
	Health   *HealthData
	Other    *OtherData
}

func (b *BeneficiaryData) variants() int {
	n := 0
	for _, present := range []bool{b.Vehicle != nil, b.Person != nil, b.Property != nil, b.Health != nil, b.Other != nil} {
		if present {
			n++
		}
	}
	return n
}

// Validate verifica que la variante coincida con Type y que sus campos obligatorios estén presentes.
func (b *BeneficiaryData) Validate() error {
	if b.variants() != 1 {
		return fmt.Errorf("beneficiary: se espera exactamente una variante, hay %d", b.variants())
	}
	switch b.Type {
	case AssetVehicle:
		if b.Vehicle == nil {
			return fmt.Errorf("beneficiary: falta vehicle")
		}
		if b.Vehicle.Plate == "" || b.Vehicle.Brand == "" {
			return fmt.Errorf("beneficiary: plate y brand son obligatorios")
		}
	case AssetPerson:
		if b.Person == nil {
			return fmt.Errorf("beneficiary: falta person")
		}
		if b.Person.FullName == "" || b.Person.DocumentID == "" {
			return fmt.Errorf("beneficiary: full_name y document_id son obligatorios")
		}
	case AssetProperty:
		if b.Property == nil {
			return fmt.Errorf("beneficiary: falta property")
		}
		if b.Property.Address == "" {
			return fmt.Errorf("beneficiary: address es obligatorio")
		}
	case AssetHealth:
		if b.Health == nil {
			return fmt.Errorf("beneficiary: falta health")
		}
		if b.Health.FullName == "" || b.Health.PlanType == "" {
			return fmt.Errorf("beneficiary: full_name y plan_type son obligatorios")
		}
		if b.Health.Dependents < 0 {
			return fmt.Errorf("beneficiary: dependents no puede ser negativo")
		}
	case AssetOther:
		if b.Other == nil {
			return fmt.Errorf("beneficiary: falta other")
		}
		if b.Other.Description == "" {
			return fmt.Errorf("beneficiary: description es obligatorio")
		}
	default:
		return fmt.Errorf("beneficiary: tipo de bien desconocido %q", b.Type)
	}
	return nil
}

type beneficiaryEnvelope struct {
	Type AssetType       `json:"type"`
	Data json.RawMessage `json:"data"`
}

// MarshalJSON serializa como {"type": ..., "data": {...}}.
func (b BeneficiaryData) MarshalJSON() ([]byte, error) {
	var payload any
	switch b.Type {
	case AssetVehicle:
		payload = b.Vehicle
	case AssetPerson:
		payload = b.Person
	case AssetProperty:
		payload = b.Property
	case AssetHealth:
		payload = b.Health
	case AssetOther:
		payload = b.Other
	default:
		return nil, fmt.Errorf("beneficiary: tipo de bien desconocido %q", b.Type)
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(beneficiaryEnvelope{Type: b.Type, Data: data})
}

// UnmarshalJSON decodifica la variante indicada por "type".
func (b *BeneficiaryData) UnmarshalJSON(raw []byte) error {
	var env beneficiaryEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return err
	}
	out := BeneficiaryData{Type: env.Type}
	var target any
	switch env.Type {
	case AssetVehicle:
		out.Vehicle = &VehicleData{}
		target = out.Vehicle
	case AssetPerson:
		out.Person = &PersonData{}
		target = out.Person
	case AssetProperty:
		out.Property = &PropertyData{}
		target = out.Property
	case AssetHealth:
		out.Health = &HealthData{}
		target = out.Health
	case AssetOther:
		out.Other = &OtherData{}
		target = out.Other
	default:
		return fmt.Errorf("beneficiary: tipo de bien desconocido %q", env.Type)
	}
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, target); err != nil {
			return fmt.Errorf("beneficiary %s: %w", env.Type, err)
		}
	}
	*b = out
	return nil
}
