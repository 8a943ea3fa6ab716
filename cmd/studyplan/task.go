package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/fentz26/studyplan/internal/models"
	"github.com/fentz26/studyplan/internal/store"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage study tasks",
}

var taskAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new task",
	RunE:  runTaskAdd,
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	RunE:  runTaskList,
}

var taskShowCmd = &cobra.Command{
	Use:   "show [task-id]",
	Short: "Show task details",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskShow,
}

var taskUpdateCmd = &cobra.Command{
	Use:   "update [task-id] key=value...",
	Short: "Update task fields",
	Long: `Update task fields. Keys: title, subject, deadline, days, priority, difficulty,
hours, completion, progress, type. Values are clamped to their valid ranges.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runTaskUpdate,
}

var taskProgressCmd = &cobra.Command{
	Use:   "progress [task-id] [percent]",
	Short: "Record progress on a task",
	Args:  cobra.ExactArgs(2),
	RunE:  runTaskProgress,
}

var taskDeleteCmd = &cobra.Command{
	Use:   "delete [task-id]",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskDelete,
}

var taskSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Add the sample tasks",
	RunE:  runTaskSeed,
}

var taskImportCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import tasks from a task record file",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTaskImport,
}

var taskExportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Write all tasks to a task record file",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTaskExport,
}

var (
	taskTitle      string
	taskSubject    string
	taskDays       int
	taskDeadline   string
	taskPriority   int
	taskHours      float64
	taskType       string
	taskDifficulty int

	listSubject    string
	listType       string
	listIncomplete bool
)

func init() {
	taskCmd.AddCommand(taskAddCmd, taskListCmd, taskShowCmd, taskUpdateCmd, taskProgressCmd,
		taskDeleteCmd, taskSeedCmd, taskImportCmd, taskExportCmd)

	taskAddCmd.Flags().StringVar(&taskTitle, "title", "", "Task title (required)")
	taskAddCmd.Flags().StringVar(&taskSubject, "subject", "", "Subject")
	taskAddCmd.Flags().IntVar(&taskDays, "days", 0, "Days until deadline")
	taskAddCmd.Flags().StringVar(&taskDeadline, "deadline", "", "Deadline (YYYY-MM-DD or RFC3339), overrides --days")
	taskAddCmd.Flags().IntVar(&taskPriority, "priority", 3, "Priority (1-5)")
	taskAddCmd.Flags().Float64Var(&taskHours, "hours", 1, "Estimated hours")
	taskAddCmd.Flags().StringVar(&taskType, "type", "study", "Task type (study, assignment, exam, review)")
	taskAddCmd.Flags().IntVar(&taskDifficulty, "difficulty", models.DefaultDifficulty, "Difficulty (1-5)")
	taskAddCmd.MarkFlagRequired("title")

	taskListCmd.Flags().StringVar(&listSubject, "subject", "", "Filter by subject")
	taskListCmd.Flags().StringVar(&listType, "type", "", "Filter by task type")
	taskListCmd.Flags().BoolVar(&listIncomplete, "incomplete", false, "Only show unfinished tasks")
}

func runTaskAdd(cmd *cobra.Command, args []string) error {
	svc := application.Service

	deadline := svc.Now().AddDate(0, 0, taskDays)
	if taskDeadline != "" {
		d, err := models.ParseDeadline(taskDeadline)
		if err != nil {
			return err
		}
		deadline = d
	} else if !cmd.Flags().Changed("days") {
		return fmt.Errorf("either --days or --deadline is required")
	}

	task, err := svc.CreateTask(models.Task{
		Title:          taskTitle,
		Subject:        taskSubject,
		Deadline:       deadline,
		Priority:       taskPriority,
		EstimatedHours: taskHours,
		TaskType:       models.ParseTaskType(taskType),
		Difficulty:     taskDifficulty,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Created task: %s (%s)\n", task.Title, truncateID(task.ID))
	return nil
}

func runTaskList(cmd *cobra.Command, args []string) error {
	f := store.Filter{Subject: listSubject, IncompleteOnly: listIncomplete}
	if listType != "" {
		f.TaskType = models.ParseTaskType(listType)
	}

	tasks, err := application.Service.ListTasks(f)
	if err != nil {
		return err
	}

	if len(tasks) == 0 {
		fmt.Println("No tasks found")
		return nil
	}

	now := application.Service.Now()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tSUBJECT\tTYPE\tDUE\tPRI\tDIFF\tHOURS\tDONE")
	for _, t := range tasks {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%dd\t%d\t%d\t%.1f\t%.0f%%\n",
			truncateID(t.ID), truncate(t.Title, 40), t.Subject, t.TaskType,
			t.DaysUntilDeadline(now), t.Priority, t.Difficulty, t.EstimatedHours, t.CompletionStatus*100)
	}
	w.Flush()
	return nil
}

func runTaskShow(cmd *cobra.Command, args []string) error {
	id, err := resolveTaskID(args[0])
	if err != nil {
		return err
	}
	task, err := application.Service.GetTask(id)
	if err != nil {
		return err
	}
	printTask(task, application.Service.Now())
	return nil
}

func runTaskUpdate(cmd *cobra.Command, args []string) error {
	id, err := resolveTaskID(args[0])
	if err != nil {
		return err
	}

	fields := make(map[string]string, len(args)-1)
	for _, arg := range args[1:] {
		k, v, ok := strings.Cut(arg, "=")
		if !ok {
			return fmt.Errorf("expected key=value, got %q", arg)
		}
		fields[k] = v
	}

	task, err := application.Service.UpdateTaskFields(id, fields)
	if err != nil {
		return err
	}
	printTask(task, application.Service.Now())
	return nil
}

func runTaskProgress(cmd *cobra.Command, args []string) error {
	id, err := resolveTaskID(args[0])
	if err != nil {
		return err
	}
	task, err := application.Service.UpdateTaskFields(id, map[string]string{"progress": args[1]})
	if err != nil {
		return err
	}
	fmt.Printf("%s: %.0f%% complete\n", task.Title, task.CompletionStatus*100)
	return nil
}

func runTaskDelete(cmd *cobra.Command, args []string) error {
	id, err := resolveTaskID(args[0])
	if err != nil {
		return err
	}
	if err := application.Service.DeleteTask(id); err != nil {
		return err
	}
	fmt.Printf("Deleted task %s\n", truncateID(id))
	return nil
}

func runTaskSeed(cmd *cobra.Command, args []string) error {
	tasks, err := application.Service.SeedSamples()
	if err != nil {
		return err
	}
	fmt.Printf("Added %d sample tasks\n", len(tasks))
	return nil
}

func runTaskImport(cmd *cobra.Command, args []string) error {
	path := loaded.DataFile
	if len(args) == 1 {
		path = args[0]
	}
	n, err := application.Service.ImportFile(path)
	if err != nil {
		return err
	}
	fmt.Printf("Imported %d tasks from %s\n", n, path)
	return nil
}

func runTaskExport(cmd *cobra.Command, args []string) error {
	path := loaded.DataFile
	if len(args) == 1 {
		path = args[0]
	}
	n, err := application.Service.ExportFile(path)
	if err != nil {
		return err
	}
	fmt.Printf("Wrote %d tasks to %s\n", n, path)
	return nil
}

// --- Helpers ---

func printTask(t *models.Task, now time.Time) {
	fmt.Printf("ID:          %s\n", t.ID)
	fmt.Printf("Title:       %s\n", t.Title)
	fmt.Printf("Subject:     %s\n", t.Subject)
	fmt.Printf("Type:        %s\n", t.TaskType)
	fmt.Printf("Deadline:    %s (%d days)\n", t.Deadline.Local().Format("2006-01-02 15:04"), t.DaysUntilDeadline(now))
	fmt.Printf("Priority:    %d/5\n", t.Priority)
	fmt.Printf("Difficulty:  %d/5\n", t.Difficulty)
	fmt.Printf("Hours:       %.1f (%.1f remaining)\n", t.EstimatedHours, t.RemainingHours())
	fmt.Printf("Progress:    %.0f%%\n", t.CompletionStatus*100)
	fmt.Printf("Created:     %s\n", t.CreatedAt.Local().Format(time.RFC3339))
	fmt.Printf("Updated:     %s\n", t.UpdatedAt.Local().Format(time.RFC3339))
}

// resolveTaskID expands a unique ID prefix to the full task ID.
func resolveTaskID(prefix string) (string, error) {
	tasks, err := application.Service.ListTasks(store.Filter{})
	if err != nil {
		return "", err
	}

	var matches []string
	for _, t := range tasks {
		if t.ID == prefix {
			return t.ID, nil
		}
		if strings.HasPrefix(t.ID, prefix) {
			matches = append(matches, t.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %s", store.ErrTaskNotFound, prefix)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("task id %q is ambiguous (%d matches)", prefix, len(matches))
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func truncateID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
