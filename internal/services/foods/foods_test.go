package foods

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/fitflow-web/internal/models"
	"github.com/magabrotheeeer/fitflow-web/internal/session"
	"github.com/magabrotheeeer/fitflow-web/internal/validation"
)

type APIMock struct{ mock.Mock }

func (m *APIMock) ListFoods(ctx context.Context, token string) ([]models.Food, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Food), args.Error(1)
}
func (m *APIMock) CreateFood(ctx context.Context, token string, form models.FoodForm) (*models.Food, error) {
	args := m.Called(ctx, token, form)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Food), args.Error(1)
}
func (m *APIMock) UpdateFood(ctx context.Context, token string, id int, form models.FoodForm) (*models.Food, error) {
	args := m.Called(ctx, token, id, form)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Food), args.Error(1)
}
func (m *APIMock) DeleteFood(ctx context.Context, token string, id int) (*models.Message, error) {
	args := m.Called(ctx, token, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

var sess = session.Session{Token: "tok"}

func validFood() models.FoodForm {
	return models.FoodForm{
		Name:               "Avena",
		CaloriesPerPortion: 150,
		ProteinPerPortion:  5,
		FatPerPortion:      3,
		CarbsPerPortion:    27,
		PortionUnit:        "taza",
	}
}

func TestCreate(t *testing.T) {
	tests := []struct {
		name       string
		form       func() models.FoodForm
		setupMocks func(api *APIMock, form models.FoodForm)
		wantFields []string
	}{
		{
			name: "success create",
			form: validFood,
			setupMocks: func(api *APIMock, form models.FoodForm) {
				api.On("CreateFood", mock.Anything, "tok", form).Return(&models.Food{FoodID: 3, Name: "Avena"}, nil).Once()
			},
		},
		{
			name: "короткое имя и нулевые калории",
			form: func() models.FoodForm {
				f := validFood()
				f.Name = "A"
				f.CaloriesPerPortion = 0
				return f
			},
			setupMocks: func(*APIMock, models.FoodForm) {},
			wantFields: []string{"name", "calories_per_portion"},
		},
		{
			name: "отрицательные макронутриенты и пустая единица",
			form: func() models.FoodForm {
				f := validFood()
				f.FatPerPortion = -1
				f.PortionUnit = ""
				return f
			},
			setupMocks: func(*APIMock, models.FoodForm) {},
			wantFields: []string{"fat_per_portion", "portion_unit"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := new(APIMock)
			form := tt.form()
			tt.setupMocks(api, form)
			svc := New(api, validation.New(nil), newNoopLogger())

			food, err := svc.Create(context.Background(), sess, form)
			if len(tt.wantFields) > 0 {
				var fields validation.FieldErrors
				require.ErrorAs(t, err, &fields)
				for _, f := range tt.wantFields {
					assert.Contains(t, fields, f)
				}
				assert.Empty(t, api.Calls)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 3, food.FoodID)
			api.AssertExpectations(t)
		})
	}
}

func TestUpdateAndDelete(t *testing.T) {
	api := new(APIMock)
	form := validFood()
	api.On("UpdateFood", mock.Anything, "tok", 3, form).Return(&models.Food{FoodID: 3}, nil).Once()
	api.On("DeleteFood", mock.Anything, "tok", 3).Return(&models.Message{Message: "Alimento eliminado correctamente"}, nil).Once()
	svc := New(api, validation.New(nil), newNoopLogger())

	_, err := svc.Update(context.Background(), sess, 3, form)
	require.NoError(t, err)

	msg, err := svc.Delete(context.Background(), sess, 3)
	require.NoError(t, err)
	assert.Equal(t, "Alimento eliminado correctamente", msg.Message)

	_, err = svc.Delete(context.Background(), sess, 0)
	var fields validation.FieldErrors
	require.ErrorAs(t, err, &fields)

	api.AssertExpectations(t)
}

func TestList_Empty(t *testing.T) {
	api := new(APIMock)
	api.On("ListFoods", mock.Anything, "tok").Return(nil, nil).Once()

	foods, err := New(api, validation.New(nil), newNoopLogger()).List(context.Background(), sess)
	require.NoError(t, err)
	assert.NotNil(t, foods)
}
