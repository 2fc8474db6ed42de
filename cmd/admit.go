package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lessonbird/timetable/app"
	"github.com/lessonbird/timetable/config"
	"github.com/lessonbird/timetable/core/model"
	"github.com/lessonbird/timetable/infra/logger"
)

var admitFlags struct {
	schoolID  string
	termID    string
	day       int
	periodID  string
	classID   string
	subjectID string
	teacherID string
	roomID    string
}

var admitCmd = &cobra.Command{
	Use:   "admit",
	Short: "Submit one candidate placement and print the decision",
	RunE:  runAdmit,
}

func init() {
	admitCmd.Flags().StringVar(&admitFlags.schoolID, "school", "", "school id")
	admitCmd.Flags().StringVar(&admitFlags.termID, "term", "", "term id")
	admitCmd.Flags().IntVar(&admitFlags.day, "day", 1, "weekday (1=Monday)")
	admitCmd.Flags().StringVar(&admitFlags.periodID, "period", "", "period id")
	admitCmd.Flags().StringVar(&admitFlags.classID, "class", "", "class id")
	admitCmd.Flags().StringVar(&admitFlags.subjectID, "subject", "", "subject id")
	admitCmd.Flags().StringVar(&admitFlags.teacherID, "teacher", "", "teacher id")
	admitCmd.Flags().StringVar(&admitFlags.roomID, "room", "", "room id (optional)")
	rootCmd.AddCommand(admitCmd)
}

func runAdmit(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("admit-command").Errorf("service close: %v", err)
		}
	}()

	candidate := model.Placement{
		SchoolID:  admitFlags.schoolID,
		TermID:    admitFlags.termID,
		Day:       model.Weekday(admitFlags.day),
		PeriodID:  admitFlags.periodID,
		ClassID:   admitFlags.classID,
		SubjectID: admitFlags.subjectID,
		TeacherID: admitFlags.teacherID,
		RoomID:    admitFlags.roomID,
	}
	placed, evicted, err := svc.Admit(context.Background(), candidate)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "admitted %s\n", placed.ID)
	for _, id := range evicted {
		fmt.Fprintf(cmd.OutOrStdout(), "evicted %s\n", id)
	}
	return nil
}
