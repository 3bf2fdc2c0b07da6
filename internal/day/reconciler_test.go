package day

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/dayplan/internal/model"
	"github.com/nhle/dayplan/tests/testutil"
)

func fixedClock(s string) ClockFunc {
	t, err := time.ParseInLocation("2006-01-02 15:04", s, time.Local)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return t }
}

func TestReconcileMarksEarlierDaysOverdue(t *testing.T) {
	s := testutil.NewTestStore(t)
	p := testutil.NewTestPrefs(t)
	ctx := context.Background()

	for _, title := range []string{"a", "b", "c"} {
		testutil.MustAddTask(t, s, title, "2024-01-01", model.StatusOpen)
	}

	r := NewReconciler(s, p, fixedClock("2024-01-02 10:00"), nil)
	v, err := r.Reconcile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-02", v.Today)
	assert.EqualValues(t, 3, v.MarkedOverdue)
	assert.True(t, v.NeedsPlanning)
	assert.Equal(t, "2024-01-01", v.FallbackDate)
	require.Len(t, v.FallbackTasks, 3)
	for _, task := range v.FallbackTasks {
		assert.Equal(t, model.StatusOverdue, task.Status)
	}

	again, err := r.Reconcile(ctx)
	require.NoError(t, err)
	assert.Zero(t, again.MarkedOverdue)
}

func TestReconcileWithTodaysTasks(t *testing.T) {
	s := testutil.NewTestStore(t)
	p := testutil.NewTestPrefs(t)

	testutil.MustAddTask(t, s, "a", "2024-01-02", model.StatusDone)
	testutil.MustAddTask(t, s, "b", "2024-01-02", model.StatusOpen)

	r := NewReconciler(s, p, fixedClock("2024-01-02 10:00"), nil)
	v, err := r.Reconcile(context.Background())
	require.NoError(t, err)
	assert.False(t, v.NeedsPlanning)
	assert.Len(t, v.Tasks, 2)
	assert.Equal(t, 1, v.DoneCount())
	assert.False(t, v.AllDone())
	assert.Empty(t, v.FallbackDate)
}

func TestReconcileEmptyDatabase(t *testing.T) {
	s := testutil.NewTestStore(t)
	p := testutil.NewTestPrefs(t)

	r := NewReconciler(s, p, fixedClock("2024-01-02 10:00"), nil)
	v, err := r.Reconcile(context.Background())
	require.NoError(t, err)
	assert.True(t, v.NeedsPlanning)
	assert.Empty(t, v.FallbackDate)
	assert.Empty(t, v.Tasks)
}

func TestReconcileAutoCopiesUnfinishedTasks(t *testing.T) {
	s := testutil.NewTestStore(t)
	p := testutil.NewTestPrefs(t)
	require.NoError(t, p.Set("auto_copy_incomplete_tasks", "true"))

	testutil.MustAddTask(t, s, "open", "2024-01-01", model.StatusOpen)
	testutil.MustAddTask(t, s, "done", "2024-01-01", model.StatusDone)

	r := NewReconciler(s, p, fixedClock("2024-01-03 08:00"), nil)
	v, err := r.Reconcile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, v.Copied)
	assert.False(t, v.NeedsPlanning)
	require.Len(t, v.Tasks, 1)
	assert.Equal(t, "open", v.Tasks[0].Title)
	assert.Equal(t, model.StatusOpen, v.Tasks[0].Status)

	prefs, err := p.Load()
	require.NoError(t, err)
	assert.Equal(t, "2024-01-03", prefs.LastPlanningDate)
}

func TestCloseDayIfEndedRunsOncePerDay(t *testing.T) {
	s := testutil.NewTestStore(t)
	p := testutil.NewTestPrefs(t)
	ctx := context.Background()

	task := testutil.MustAddTask(t, s, "late", "2024-01-02", model.StatusOpen)

	before := NewReconciler(s, p, fixedClock("2024-01-02 21:59"), nil)
	closed, err := before.CloseDayIfEnded(ctx)
	require.NoError(t, err)
	assert.False(t, closed)

	after := NewReconciler(s, p, fixedClock("2024-01-02 22:00"), nil)
	closed, err = after.CloseDayIfEnded(ctx)
	require.NoError(t, err)
	assert.True(t, closed)

	got, err := s.GetTaskByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusOverdue, got.Status)

	closed, err = after.CloseDayIfEnded(ctx)
	require.NoError(t, err)
	assert.False(t, closed, "second call on the same day is a no-op")
}

func TestCloseDayIfEndedOvernightWindow(t *testing.T) {
	s := testutil.NewTestStore(t)
	p := testutil.NewTestPrefs(t)
	ctx := context.Background()
	require.NoError(t, p.SetDaySchedule("18:00", "02:00"))

	task := testutil.MustAddTask(t, s, "late", "2024-01-02", model.StatusOpen)

	for _, at := range []string{"2024-01-02 18:30", "2024-01-03 01:59"} {
		closed, err := NewReconciler(s, p, fixedClock(at), nil).CloseDayIfEnded(ctx)
		require.NoError(t, err)
		assert.False(t, closed, "window still open at %s", at)
	}
	got, err := s.GetTaskByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusOpen, got.Status)

	after := NewReconciler(s, p, fixedClock("2024-01-03 02:30"), nil)
	closed, err := after.CloseDayIfEnded(ctx)
	require.NoError(t, err)
	assert.True(t, closed)

	got, err = s.GetTaskByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusOverdue, got.Status)

	prefs, err := p.Load()
	require.NoError(t, err)
	assert.Equal(t, "2024-01-02", prefs.LastOverdueMarkedDate)

	closed, err = NewReconciler(s, p, fixedClock("2024-01-03 17:00"), nil).CloseDayIfEnded(ctx)
	require.NoError(t, err)
	assert.False(t, closed)
}

func TestReconcileOvernightKeepsPlanningDayPastMidnight(t *testing.T) {
	s := testutil.NewTestStore(t)
	p := testutil.NewTestPrefs(t)
	ctx := context.Background()
	require.NoError(t, p.SetDaySchedule("18:00", "02:00"))

	testutil.MustAddTask(t, s, "late", "2024-01-02", model.StatusOpen)

	v, err := NewReconciler(s, p, fixedClock("2024-01-03 00:30"), nil).Reconcile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-02", v.Today)
	assert.Zero(t, v.MarkedOverdue)
	require.Len(t, v.Tasks, 1)
	assert.Equal(t, model.StatusOpen, v.Tasks[0].Status)

	v, err = NewReconciler(s, p, fixedClock("2024-01-03 02:00"), nil).Reconcile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-03", v.Today)
	assert.EqualValues(t, 1, v.MarkedOverdue)
}

func TestPlanDayCapsAtThreeGoals(t *testing.T) {
	s := testutil.NewTestStore(t)
	p := testutil.NewTestPrefs(t)
	ctx := context.Background()

	r := NewReconciler(s, p, fixedClock("2024-01-02 09:30"), nil)
	added, err := r.PlanDay(ctx, []model.Task{
		{Title: "one"}, {Title: "  "}, {Title: "two"}, {Title: "three"}, {Title: "four"},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, added)

	tasks, err := s.GetTasksByDate(ctx, "2024-01-02")
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, "three", tasks[2].Title)

	prefs, err := p.Load()
	require.NoError(t, err)
	assert.Equal(t, "2024-01-02", prefs.LastPlanningDate)
}
