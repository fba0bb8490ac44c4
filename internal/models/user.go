// Package models содержит доменные структуры FitFlow, которые приходят из REST API
// и отдаются представлениям. Обязательные поля хранятся значениями, необязательные указателями.
package models

// Role роль пользователя, как её возвращает /auth/me.
type Role string

const (
	RoleClient       Role = "Cliente"
	RoleNutritionist Role = "Nutricionista"
	RoleAdmin        Role = "Administrador"
	RoleNone         Role = "Sin rol"
)

// Sex пол пользователя.
type Sex string

const (
	SexMale   Sex = "Masculino"
	SexFemale Sex = "Femenino"
)

// ActivityLevel уровень физической активности клиента.
type ActivityLevel string

const (
	ActivitySedentary ActivityLevel = "Sedentario"
	ActivityLight     ActivityLevel = "Ligero"
	ActivityModerate  ActivityLevel = "Moderado"
	ActivityIntense   ActivityLevel = "Intenso"
	ActivityExtreme   ActivityLevel = "Extremo"
)

// Goal цель клиента по весу.
type Goal string

const (
	GoalLoseWeight     Goal = "Bajar_Peso"
	GoalMaintainWeight Goal = "Mantener_Peso"
	GoalGainWeight     Goal = "Subir_Peso"
)

// User пользователь системы.
type User struct {
	UserID    int    `json:"user_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Cedula    string `json:"cedula"`
	Email     string `json:"email"`
	BirthDate string `json:"birth_date"`
	Sex       Sex    `json:"sex"`
	Role      *Role  `json:"role,omitempty"`
}

// HasRole сообщает, совпадает ли роль пользователя с одной из перечисленных.
func (u User) HasRole(roles ...Role) bool {
	if u.Role == nil {
		return false
	}
	for _, r := range roles {
		if *u.Role == r {
			return true
		}
	}
	return false
}

// FullName имя и фамилия через пробел.
func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// ClientProfile ответ регистрации клиента с рассчитанными сервером показателями.
type ClientProfile struct {
	User
	HeightCm         float64       `json:"height_cm"`
	WeightCurrentKg  float64       `json:"weight_current_kg"`
	WeightGoalKg     float64       `json:"weight_goal_kg"`
	ActivityLevel    ActivityLevel `json:"activity_level"`
	Goal             Goal          `json:"goal"`
	Age              *int          `json:"age,omitempty"`
	MetabolismoBasal *float64      `json:"metabolismo_basal,omitempty"`
	GET              *float64      `json:"get,omitempty"`
	RCDE             *float64      `json:"rcde,omitempty"`
}

// Token ответ /auth/login.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Message типовой ответ API с текстом результата.
type Message struct {
	Message string `json:"message"`
}
