package export

import (
	"fmt"
	"strconv"
	"time"

	"github.com/johnfercher/maroto/pkg/color"
	"github.com/johnfercher/maroto/pkg/consts"
	"github.com/johnfercher/maroto/pkg/pdf"
	"github.com/johnfercher/maroto/pkg/props"

	"github.com/fentz26/studyplan/internal/models"
)

var sessionGrid = []uint{3, 4, 1, 1, 2, 1}

// WritePDF renders the plan as an A4 report at path.
func WritePDF(path string, plan *models.WeeklyPlan, now time.Time) error {
	m := pdf.NewMaroto(consts.Portrait, consts.A4)
	m.SetPageMargins(20, 10, 20)

	m.RegisterHeader(func() {
		m.Row(10, func() {
			m.Col(12, func() {
				m.Text("Weekly Study Plan", props.Text{
					Top:   3,
					Style: consts.Bold,
					Align: consts.Center,
					Size:  16,
				})
			})
		})
		m.Row(10, func() {
			m.Col(12, func() {
				m.Text(dateRange(plan, now), props.Text{
					Top:   3,
					Style: consts.Normal,
					Align: consts.Center,
					Size:  12,
				})
			})
		})
	})

	if plan.IsEmpty() {
		m.Row(10, func() {
			m.Col(12, func() {
				m.Text("No sessions scheduled", props.Text{Top: 5, Size: 12})
			})
		})
		return m.OutputFileAndClose(path)
	}

	headers := []string{"Subject", "Task", "Hours", "Priority", "Time", "Due"}
	for _, day := range plan.Days {
		day := day
		m.Row(10, func() {
			m.Col(12, func() {
				m.Text(fmt.Sprintf("%s (%s) - %.1fh of %.1fh", day.Day, day.Date, day.TotalHours, day.AvailableHours), props.Text{
					Top:   5,
					Style: consts.Bold,
					Size:  12,
				})
			})
		})

		if len(day.Sessions) == 0 {
			m.Row(7, func() {
				m.Col(12, func() {
					m.Text("No sessions scheduled", props.Text{Size: 10})
				})
			})
			continue
		}

		rows := make([][]string, 0, len(day.Sessions))
		for _, s := range day.Sessions {
			rows = append(rows, []string{
				s.Subject,
				s.Title,
				strconv.FormatFloat(s.Duration, 'f', 1, 64),
				fmt.Sprintf("%d/5", s.Priority),
				string(s.OptimalTime),
				fmt.Sprintf("%dd", s.DeadlineDays),
			})
		}
		m.TableList(headers, rows, props.TableList{
			HeaderProp: props.TableListContent{
				Size:      10,
				GridSizes: sessionGrid,
			},
			ContentProp: props.TableListContent{
				Size:      10,
				GridSizes: sessionGrid,
			},
			Align:                consts.Left,
			AlternatedBackground: &color.Color{Red: 240, Green: 240, Blue: 240},
			HeaderContentSpace:   1,
			Line:                 false,
		})

		for _, rec := range day.Recommendations {
			rec := rec
			m.Row(6, func() {
				m.Col(12, func() {
					m.Text(rec, props.Text{Size: 9, Style: consts.Italic})
				})
			})
		}
	}

	return m.OutputFileAndClose(path)
}

func dateRange(plan *models.WeeklyPlan, now time.Time) string {
	if plan.IsEmpty() {
		return now.Format("2006-01-02")
	}
	return fmt.Sprintf("%s - %s", plan.Days[0].Date, plan.Days[len(plan.Days)-1].Date)
}
