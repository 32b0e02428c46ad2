package schedule_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/voyage-estimator/internal/domain/cargo"
	"github.com/andrescamacho/voyage-estimator/internal/domain/schedule"
	"github.com/andrescamacho/voyage-estimator/internal/domain/shared"
)

func TestNewInitialSchedule_BallastThenCargoLegs(t *testing.T) {
	// Arrange
	v := testVessel()
	v.OpenPort = "Rotterdam"
	v.OpenDate = shared.MustParseLocalTime("2025-03-01 08:00")
	c := cargo.CargoInput{
		LoadPorts:         []string{"Santos", " santos ", "Paranagua"},
		DischargePorts:    []string{"Qingdao"},
		LoadPortDays:      2,
		DischargePortDays: 3,
	}
	ports := schedule.PortCatalog{
		{ID: 7, Name: "Rotterdam", IsEurope: true},
		{ID: 8, Name: "Santos"},
	}

	// Act
	s := schedule.NewInitialSchedule(v, c, ports, sequentialIDs(100))

	// Assert
	require.Len(t, s, 4)
	assert.Equal(t, []int{101, 102, 103, 104}, ids(s))

	assert.Equal(t, shared.ActivityBallast, s[0].Activity)
	assert.Equal(t, "Rotterdam", s[0].PortName)
	assert.True(t, s[0].IsEurope)
	assert.Equal(t, 7, s[0].PortID)
	assert.Equal(t, "2025-03-01 08:00", s[0].ETD.String())

	assert.Equal(t, []string{"Santos", "Paranagua"}, s.PortsWithActivity(shared.ActivityLoad))
	assert.Equal(t, 8, s[1].PortID)
	assert.Equal(t, 0, s[2].PortID, "unknown ports degrade to zero values")
	assert.Equal(t, 2.0, s[1].PortDays)
	assert.Equal(t, 3.0, s[3].PortDays)

	assert.Equal(t, shared.SpeedLaden, s[1].SpeedSetting)
	assert.Equal(t, shared.SpeedBallast, s[3].SpeedSetting, "final discharge sails away in ballast")
	for _, leg := range s {
		assert.False(t, leg.IsDeletable)
	}

	// no distances yet, so every leg arrives when the previous one departs
	assert.Equal(t, "2025-03-01 08:00", s[1].ETA.String())
	assert.Equal(t, "2025-03-03 08:00", s[1].ETD.String())
}

func TestNewInitialSchedule_AnchorsOnLaycanWithoutOpenDate(t *testing.T) {
	c := cargo.CargoInput{
		LoadPorts:      []string{"Santos"},
		DischargePorts: []string{"Qingdao"},
		LaycanFrom:     shared.MustParseLocalTime("2025-04-10 00:00"),
	}

	s := schedule.NewInitialSchedule(testVessel(), c, nil, sequentialIDs(0))

	require.Len(t, s, 3)
	assert.Equal(t, "2025-04-10 00:00", s[0].ETD.String())
	assert.Equal(t, "", s[0].PortName)
}
