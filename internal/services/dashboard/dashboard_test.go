package dashboard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/fitflow-web/internal/fitflowapi"
	"github.com/magabrotheeeer/fitflow-web/internal/models"
	"github.com/magabrotheeeer/fitflow-web/internal/session"
)

type APIMock struct{ mock.Mock }

func (m *APIMock) NutritionMetrics(ctx context.Context, token string) (*models.NutritionMetrics, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.NutritionMetrics), args.Error(1)
}

func TestMetrics(t *testing.T) {
	tests := []struct {
		name    string
		resp    *models.NutritionMetrics
		err     error
		wantErr error
	}{
		{
			name: "success",
			resp: func() *models.NutritionMetrics {
				m := &models.NutritionMetrics{}
				m.CaloricCompliance.TargetCalories = 2100
				return m
			}(),
		},
		{
			name:    "сервер недоступен",
			err:     fitflowapi.ErrUnavailable,
			wantErr: fitflowapi.ErrUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := new(APIMock)
			if tt.resp != nil {
				api.On("NutritionMetrics", mock.Anything, "tok").Return(tt.resp, nil).Once()
			} else {
				api.On("NutritionMetrics", mock.Anything, "tok").Return(nil, tt.err).Once()
			}

			m, err := New(api).Metrics(context.Background(), session.Session{Token: "tok"})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 2100.0, m.CaloricCompliance.TargetCalories)
			api.AssertExpectations(t)
		})
	}
}
