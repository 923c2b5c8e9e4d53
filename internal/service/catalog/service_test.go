package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/ISB-BookingService/internal/domain"
	"github.com/m04kA/ISB-BookingService/pkg/logger"
)

func newTestService() *Service {
	return NewService(domain.DefaultCatalog(), domain.DefaultCalendar(time.UTC), logger.NewNop())
}

func TestGetCatalog_PremiumResource(t *testing.T) {
	svc := newTestService()

	resp, err := svc.GetCatalog(domain.DefaultPremiumResource)
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultPremiumPackages, resp.Packages)
	assert.Equal(t, "UTC", resp.Timezone)
	require.Len(t, resp.Hours, 7)

	assert.Equal(t, "Monday", resp.Hours[0].Weekday)
	assert.Equal(t, "08:00", resp.Hours[0].Start)
	assert.Equal(t, "16:00", resp.Hours[0].End)

	assert.Equal(t, "Saturday", resp.Hours[5].Weekday)
	assert.Equal(t, "09:00", resp.Hours[5].Start)

	assert.Equal(t, "Sunday", resp.Hours[6].Weekday)
	assert.Equal(t, "10:00", resp.Hours[6].Start)
}

func TestGetCatalog_StandardResource(t *testing.T) {
	svc := newTestService()

	var standard string
	for _, r := range domain.DefaultResources {
		if r != domain.DefaultPremiumResource {
			standard = r
			break
		}
	}
	require.NotEmpty(t, standard)

	resp, err := svc.GetCatalog(standard)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultStandardPackages, resp.Packages)
}

func TestGetCatalog_UnknownResource(t *testing.T) {
	_, err := newTestService().GetCatalog("Atlantis")
	assert.ErrorIs(t, err, ErrResourceNotFound)
}

func TestGetCatalog_ClosedDay(t *testing.T) {
	calendar := domain.NewCalendar(map[time.Weekday]domain.OperatingHours{
		time.Monday: {StartHour: 8, EndHour: 12},
	}, time.UTC)
	svc := NewService(domain.DefaultCatalog(), calendar, logger.NewNop())

	resp, err := svc.GetCatalog(domain.DefaultPremiumResource)
	require.NoError(t, err)
	assert.False(t, resp.Hours[0].Closed)
	assert.True(t, resp.Hours[1].Closed)
	assert.Empty(t, resp.Hours[1].Start)
}

func TestListResources(t *testing.T) {
	resp := newTestService().ListResources()
	assert.ElementsMatch(t, domain.DefaultResources, resp.Resources)
}
