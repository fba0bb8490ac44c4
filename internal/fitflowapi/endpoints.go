package fitflowapi

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/magabrotheeeer/fitflow-web/internal/models"
)

// Login обменивает cédula и пароль на токен. Сервер принимает форму OAuth2,
// где username это cédula.
func (c *Client) Login(ctx context.Context, cedula, password string) (*models.Token, error) {
	var token models.Token
	err := c.do(ctx, call{
		method:   http.MethodPost,
		path:     "/auth/login",
		endpoint: "Login",
		form:     url.Values{"username": {cedula}, "password": {password}},
	}, &token)
	if err != nil {
		return nil, err
	}
	return &token, nil
}

// Me возвращает текущего пользователя вместе с ролью.
func (c *Client) Me(ctx context.Context, token string) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, call{method: http.MethodGet, path: "/auth/me", endpoint: "Me", token: token}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) listUsers(ctx context.Context, token, path, endpoint string) ([]models.User, error) {
	var users []models.User
	if err := c.do(ctx, call{method: http.MethodGet, path: path, endpoint: endpoint, token: token}, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// ListUsers все пользователи.
func (c *Client) ListUsers(ctx context.Context, token string) ([]models.User, error) {
	return c.listUsers(ctx, token, "/auth/users", "ListUsers")
}

// ListClients клиенты.
func (c *Client) ListClients(ctx context.Context, token string) ([]models.User, error) {
	return c.listUsers(ctx, token, "/auth/clients", "ListClients")
}

// ListNutritionists нутрициологи.
func (c *Client) ListNutritionists(ctx context.Context, token string) ([]models.User, error) {
	return c.listUsers(ctx, token, "/auth/nutritionists", "ListNutritionists")
}

// ListAdmins администраторы.
func (c *Client) ListAdmins(ctx context.Context, token string) ([]models.User, error) {
	return c.listUsers(ctx, token, "/auth/admins", "ListAdmins")
}

// RegisterClient регистрирует клиента. Ответ содержит рассчитанные сервером
// метаболизм, GET и RCDE.
func (c *Client) RegisterClient(ctx context.Context, form models.ClientRegistration) (*models.ClientProfile, error) {
	var profile models.ClientProfile
	err := c.do(ctx, call{method: http.MethodPost, path: "/register/client", endpoint: "RegisterClient", body: form}, &profile)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// RegisterNutritionist регистрирует нутрициолога.
func (c *Client) RegisterNutritionist(ctx context.Context, form models.NutritionistRegistration) (*models.Message, error) {
	var msg models.Message
	err := c.do(ctx, call{method: http.MethodPost, path: "/register/nutritionist", endpoint: "RegisterNutritionist", body: form}, &msg)
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// RegisterAdmin регистрирует администратора.
func (c *Client) RegisterAdmin(ctx context.Context, form models.AdminRegistration) (*models.Message, error) {
	var msg models.Message
	err := c.do(ctx, call{method: http.MethodPost, path: "/register/admin", endpoint: "RegisterAdmin", body: form}, &msg)
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// ListFoods каталог продуктов.
func (c *Client) ListFoods(ctx context.Context, token string) ([]models.Food, error) {
	var foods []models.Food
	if err := c.do(ctx, call{method: http.MethodGet, path: "/foods", endpoint: "ListFoods", token: token}, &foods); err != nil {
		return nil, err
	}
	return foods, nil
}

// CreateFood добавляет продукт.
func (c *Client) CreateFood(ctx context.Context, token string, form models.FoodForm) (*models.Food, error) {
	var food models.Food
	err := c.do(ctx, call{method: http.MethodPost, path: "/foods", endpoint: "CreateFood", token: token, body: form}, &food)
	if err != nil {
		return nil, err
	}
	return &food, nil
}

// UpdateFood изменяет продукт.
func (c *Client) UpdateFood(ctx context.Context, token string, id int, form models.FoodForm) (*models.Food, error) {
	var food models.Food
	err := c.do(ctx, call{
		method:   http.MethodPut,
		path:     "/foods/" + strconv.Itoa(id),
		endpoint: "UpdateFood",
		token:    token,
		body:     form,
	}, &food)
	if err != nil {
		return nil, err
	}
	return &food, nil
}

// DeleteFood удаляет продукт.
func (c *Client) DeleteFood(ctx context.Context, token string, id int) (*models.Message, error) {
	var msg models.Message
	err := c.do(ctx, call{method: http.MethodDelete, path: "/foods/" + strconv.Itoa(id), endpoint: "DeleteFood", token: token}, &msg)
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// CreatePlan создает план. Сервер отклоняет второй план на ту же дату.
func (c *Client) CreatePlan(ctx context.Context, token string, form models.PlanForm) (*models.PlanCreated, error) {
	var created models.PlanCreated
	err := c.do(ctx, call{method: http.MethodPost, path: "/nutrition-plans", endpoint: "CreatePlan", token: token, body: form}, &created)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// MyPlans планы текущего пользователя. query параметры фильтра по дате.
func (c *Client) MyPlans(ctx context.Context, token string, query url.Values) ([]models.NutritionPlan, error) {
	var plans []models.NutritionPlan
	err := c.do(ctx, call{
		method:   http.MethodGet,
		path:     "/nutrition-plans/my-plans",
		endpoint: "MyPlans",
		token:    token,
		query:    query,
	}, &plans)
	if err != nil {
		return nil, err
	}
	return plans, nil
}

// PlanByDate план пользователя на дату. Отсутствие плана возвращается как APIError 404.
func (c *Client) PlanByDate(ctx context.Context, token, date string) (*models.NutritionPlan, error) {
	var plan models.NutritionPlan
	err := c.do(ctx, call{
		method:   http.MethodGet,
		path:     "/nutrition-plans/by-date/" + url.PathEscape(date),
		endpoint: "PlanByDate",
		token:    token,
	}, &plan)
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

// StatusByDate статус выполнения плана на дату. Если плана нет, plan_id пустой.
func (c *Client) StatusByDate(ctx context.Context, token, date string) (*models.PlanStatus, error) {
	var status models.PlanStatus
	err := c.do(ctx, call{
		method:   http.MethodGet,
		path:     "/nutrition-plans/status/" + url.PathEscape(date),
		endpoint: "StatusByDate",
		token:    token,
	}, &status)
	if err != nil {
		return nil, err
	}
	return &status, nil
}

// PlanStatus статус выполнения плана по идентификатору за сегодня.
func (c *Client) PlanStatus(ctx context.Context, token string, planID int) (*models.PlanStatus, error) {
	var status models.PlanStatus
	err := c.do(ctx, call{
		method:   http.MethodGet,
		path:     "/nutrition-plans/" + strconv.Itoa(planID) + "/status",
		endpoint: "PlanStatus",
		token:    token,
	}, &status)
	if err != nil {
		return nil, err
	}
	return &status, nil
}

// WeekOverview планы на неделю со смещением offset от текущей.
func (c *Client) WeekOverview(ctx context.Context, token string, offset int) (*models.WeekOverview, error) {
	var week models.WeekOverview
	err := c.do(ctx, call{
		method:   http.MethodGet,
		path:     "/nutrition-plans/week-overview",
		endpoint: "WeekOverview",
		token:    token,
		query:    url.Values{"week_offset": {strconv.Itoa(offset)}},
	}, &week)
	if err != nil {
		return nil, err
	}
	return &week, nil
}

// CheckDate проверяет, свободна ли дата для нового плана клиента userID.
func (c *Client) CheckDate(ctx context.Context, token, date string, userID int) (*models.DateAvailability, error) {
	var availability models.DateAvailability
	err := c.do(ctx, call{
		method:   http.MethodGet,
		path:     "/nutrition-plans/check-date/" + url.PathEscape(date),
		endpoint: "CheckDate",
		token:    token,
		query:    url.Values{"user_id": {strconv.Itoa(userID)}},
	}, &availability)
	if err != nil {
		return nil, err
	}
	return &availability, nil
}

// DeletePlan удаляет план. Сервер отказывает, если на дату плана уже есть записи дневника.
func (c *Client) DeletePlan(ctx context.Context, token string, planID int) (*models.PlanDeleted, error) {
	return c.deletePlan(ctx, token, "/nutrition-plans/"+strconv.Itoa(planID), "DeletePlan")
}

// ForceDeletePlan удаляет план вместе с записями дневника за его дату.
func (c *Client) ForceDeletePlan(ctx context.Context, token string, planID int) (*models.PlanDeleted, error) {
	return c.deletePlan(ctx, token, "/nutrition-plans/"+strconv.Itoa(planID)+"/force", "ForceDeletePlan")
}

func (c *Client) deletePlan(ctx context.Context, token, path, endpoint string) (*models.PlanDeleted, error) {
	var deleted models.PlanDeleted
	if err := c.do(ctx, call{method: http.MethodDelete, path: path, endpoint: endpoint, token: token}, &deleted); err != nil {
		return nil, err
	}
	return &deleted, nil
}

// CreateFoodLogs отправляет записи дневника одним пакетом.
func (c *Client) CreateFoodLogs(ctx context.Context, token string, entries []models.FoodLogEntry) (*models.Message, error) {
	var msg models.Message
	err := c.do(ctx, call{method: http.MethodPost, path: "/food-logs", endpoint: "CreateFoodLogs", token: token, body: entries}, &msg)
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// NutritionMetrics показатели панели текущего клиента.
func (c *Client) NutritionMetrics(ctx context.Context, token string) (*models.NutritionMetrics, error) {
	var metrics models.NutritionMetrics
	err := c.do(ctx, call{method: http.MethodGet, path: "/dashboard/nutrition-metrics", endpoint: "NutritionMetrics", token: token}, &metrics)
	if err != nil {
		return nil, err
	}
	return &metrics, nil
}

// PlanTypes доступные стратегии генерации плана.
func (c *Client) PlanTypes(ctx context.Context, token string) ([]models.PlannerOption, error) {
	var options []models.PlannerOption
	err := c.do(ctx, call{method: http.MethodGet, path: "/nutrition-enhanced/plan-types", endpoint: "PlanTypes", token: token}, &options)
	if err != nil {
		return nil, err
	}
	return options, nil
}

// CalculatorTypes доступные калькуляторы.
func (c *Client) CalculatorTypes(ctx context.Context, token string) ([]models.PlannerOption, error) {
	var options []models.PlannerOption
	err := c.do(ctx, call{method: http.MethodGet, path: "/nutrition-enhanced/calculator-types", endpoint: "CalculatorTypes", token: token}, &options)
	if err != nil {
		return nil, err
	}
	return options, nil
}

// GeneratePlan генерирует план выбранной стратегией.
func (c *Client) GeneratePlan(ctx context.Context, token string, req models.PlanGenerationRequest) (*models.GeneratedPlan, error) {
	var plan models.GeneratedPlan
	err := c.do(ctx, call{
		method:   http.MethodPost,
		path:     "/nutrition-enhanced/generate-plan",
		endpoint: "GeneratePlan",
		token:    token,
		body:     req,
	}, &plan)
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

// ClientAnalysis анализ питания клиента калькулятором calculatorType.
func (c *Client) ClientAnalysis(ctx context.Context, token string, userID int, calculatorType string) (*models.ClientAnalysis, error) {
	var analysis models.ClientAnalysis
	err := c.do(ctx, call{
		method:   http.MethodGet,
		path:     "/nutrition-enhanced/client/" + strconv.Itoa(userID) + "/analysis",
		endpoint: "ClientAnalysis",
		token:    token,
		query:    url.Values{"calculator_type": {calculatorType}},
	}, &analysis)
	if err != nil {
		return nil, err
	}
	return &analysis, nil
}

// CompareCalculators сравнивает калькуляторы для клиента.
func (c *Client) CompareCalculators(ctx context.Context, token string, userID int) (*models.CalculatorComparison, error) {
	var cmp models.CalculatorComparison
	err := c.do(ctx, call{
		method:   http.MethodGet,
		path:     "/nutrition-enhanced/compare-calculators/" + strconv.Itoa(userID),
		endpoint: "CompareCalculators",
		token:    token,
	}, &cmp)
	if err != nil {
		return nil, err
	}
	return &cmp, nil
}
