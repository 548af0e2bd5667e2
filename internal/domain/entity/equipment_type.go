package entity

// Categorías de EPI reconocidas por el catálogo.
const (
	CategoryHead        = "Proteção da Cabeça"
	CategoryEyesFace    = "Proteção dos Olhos e Face"
	CategoryEyes        = "Proteção dos Olhos"
	CategoryHearing     = "Proteção Auditiva"
	CategoryRespiratory = "Proteção Respiratória"
	CategoryHands       = "Proteção das Mãos"
	CategoryFeet        = "Proteção dos Pés"
	CategoryBody        = "Proteção do Corpo"
	CategoryFall        = "Proteção contra Quedas"
	CategorySignaling   = "Sinalização"
	CategoryOther       = "Outros"
)

// DefaultServiceLifeDays vida útil usada cuando el tipo no la informa.
const DefaultServiceLifeDays = 365

// Categories lista ordenada de categorías ofrecidas al usuario.
var Categories = []string{
	CategoryHead,
	CategoryEyesFace,
	CategoryHearing,
	CategoryRespiratory,
	CategoryHands,
	CategoryFeet,
	CategoryBody,
	CategoryFall,
	CategoryOther,
}

// EquipmentType entrada del catálogo de EPIs (colección tiposEPI).
// CANumber es el Certificado de Aprovação emitido por el ministerio.
type EquipmentType struct {
	ID              string `json:"id"`
	CANumber        string `json:"numeroCA"`
	Name            string `json:"nomeEquipamento"`
	Description     string `json:"descricao,omitempty"`
	Manufacturer    string `json:"fabricante"`
	Category        string `json:"categoria"`
	ServiceLifeDays int    `json:"vidaUtilDias"`
	Photo           string `json:"foto,omitempty"`
}
