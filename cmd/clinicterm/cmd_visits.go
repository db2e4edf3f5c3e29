package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"clinicterm/internal/browser"
	"clinicterm/internal/clinic"
	"clinicterm/internal/render"
)

var (
	visitDate       string
	visitAge        int
	visitAddress    string
	visitStatus     string
	visitHistory    string
	visitPE         string
	visitDiagnosis  string
	visitManagement string

	dispFit      bool
	dispRest     bool
	dispRestDays string
	dispMonitor  bool

	printURLOnly bool
)

var visitsCmd = &cobra.Command{
	Use:   "visits",
	Short: "Manage visit records",
}

var visitsListCmd = &cobra.Command{
	Use:   "list [patient-id]",
	Short: "List a patient's visits",
	Args:  cobra.ExactArgs(1),
	RunE:  visitsList,
}

var visitsGetCmd = &cobra.Command{
	Use:   "get [visit-id]",
	Short: "Show one visit in full",
	Args:  cobra.ExactArgs(1),
	RunE:  visitsGet,
}

var visitsCreateCmd = &cobra.Command{
	Use:   "create [patient-id]",
	Short: "Record a visit for a patient",
	Long: `Records a visit. Remarks are derived from the disposition flags:
--fit, --rest (with --rest-days), and --monitor are mutually exclusive,
first one set wins.

Example:
  clinicterm visits create 3 --diagnosis "URTI" --rest --rest-days 3`,
	Args: cobra.ExactArgs(1),
	RunE: visitsCreate,
}

var visitsUpdateCmd = &cobra.Command{
	Use:   "update [visit-id]",
	Short: "Update a visit",
	Args:  cobra.ExactArgs(1),
	RunE:  visitsUpdate,
}

var visitsDeleteCmd = &cobra.Command{
	Use:   "delete [visit-id]",
	Short: "Delete a visit",
	Args:  cobra.ExactArgs(1),
	RunE:  visitsDelete,
}

var visitsPrintCmd = &cobra.Command{
	Use:   "print [visit-id]",
	Short: "Open the visit's medical certificate in the browser",
	Args:  cobra.ExactArgs(1),
	RunE:  visitsPrint,
}

// disposition builds the checkbox state from the flags. Remarks derivation
// itself resolves conflicts (fit > rest > monitor).
func disposition() clinic.Disposition {
	return clinic.Disposition{
		FitToWork: dispFit,
		Rest:      dispRest,
		RestDays:  dispRestDays,
		Monitor:   dispMonitor,
	}
}

func visitsList(cmd *cobra.Command, args []string) error {
	patientID, err := parseID(args[0])
	if err != nil {
		return err
	}
	visits, err := backend.ListVisits(cmd.Context(), patientID)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tSTATUS\tDIAGNOSIS\tREMARKS")
	for _, v := range visits {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			v.ID, render.FormatDateTime(v.VisitDate), v.Status, v.Diagnosis, v.Remarks)
	}
	w.Flush()
	return nil
}

func visitsGet(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	v, err := backend.GetVisit(cmd.Context(), id)
	if err != nil {
		return err
	}
	var patient *clinic.Patient
	if v.PatientID != 0 {
		// Best effort; the visit is still shown if the patient lookup fails.
		patient, _ = backend.GetPatient(cmd.Context(), v.PatientID)
	}

	md := render.VisitMarkdown(patient, v)
	renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		fmt.Print(md)
		return nil
	}
	out, err := renderer.Render(md)
	if err != nil {
		fmt.Print(md)
		return nil
	}
	fmt.Print(out)
	return nil
}

func visitsCreate(cmd *cobra.Command, args []string) error {
	patientID, err := parseID(args[0])
	if err != nil {
		return err
	}
	v := clinic.Visit{
		VisitDate:  visitDate,
		Age:        visitAge,
		Address:    visitAddress,
		Status:     visitStatus,
		History:    visitHistory,
		PE:         visitPE,
		Diagnosis:  visitDiagnosis,
		Management: visitManagement,
		Remarks:    disposition().Remarks(),
	}
	id, err := backend.CreateVisit(cmd.Context(), patientID, v)
	if err != nil {
		return err
	}
	fmt.Printf("Visit #%d added\n", id)
	return nil
}

func visitsUpdate(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	v, err := backend.GetVisit(cmd.Context(), id)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("date") {
		v.VisitDate = visitDate
	}
	if flags.Changed("age") {
		v.Age = visitAge
	}
	if flags.Changed("address") {
		v.Address = visitAddress
	}
	if flags.Changed("status") {
		v.Status = visitStatus
	}
	if flags.Changed("history") {
		v.History = visitHistory
	}
	if flags.Changed("pe") {
		v.PE = visitPE
	}
	if flags.Changed("diagnosis") {
		v.Diagnosis = visitDiagnosis
	}
	if flags.Changed("management") {
		v.Management = visitManagement
	}
	if flags.Changed("fit") || flags.Changed("rest") || flags.Changed("rest-days") || flags.Changed("monitor") {
		v.Remarks = disposition().Remarks()
	}

	if err := backend.UpdateVisit(cmd.Context(), *v); err != nil {
		return err
	}
	fmt.Printf("Visit #%d updated\n", id)
	return nil
}

func visitsDelete(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	if !assumeYes && !confirmOnTerminal(fmt.Sprintf("Delete visit #%d?", id)) {
		fmt.Println("Cancelled")
		return nil
	}
	if err := backend.DeleteVisit(cmd.Context(), id); err != nil {
		return err
	}
	fmt.Printf("Visit #%d deleted\n", id)
	return nil
}

func visitsPrint(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	url := backend.PrintURL(id)
	if printURLOnly {
		fmt.Println(url)
		return nil
	}
	if err := browser.OpenURL(url); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	fmt.Printf("Opened %s\n", url)
	return nil
}

func addVisitFieldFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&visitDate, "date", "", "visit date (YYYY-MM-DD HH:MM, blank = backend now)")
	cmd.Flags().IntVar(&visitAge, "age", 0, "patient age at visit")
	cmd.Flags().StringVar(&visitAddress, "address", "", "address")
	cmd.Flags().StringVar(&visitStatus, "status", "", "status")
	cmd.Flags().StringVar(&visitHistory, "history", "", "history")
	cmd.Flags().StringVar(&visitPE, "pe", "", "physical exam findings")
	cmd.Flags().StringVar(&visitDiagnosis, "diagnosis", "", "diagnosis")
	cmd.Flags().StringVar(&visitManagement, "management", "", "management")
	cmd.Flags().BoolVar(&dispFit, "fit", false, "remark: fit to work")
	cmd.Flags().BoolVar(&dispRest, "rest", false, "remark: advise rest")
	cmd.Flags().StringVar(&dispRestDays, "rest-days", "", "rest duration in days")
	cmd.Flags().BoolVar(&dispMonitor, "monitor", false, "remark: child requires monitoring")
}

func init() {
	addVisitFieldFlags(visitsCreateCmd)
	addVisitFieldFlags(visitsUpdateCmd)

	visitsDeleteCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "skip confirmation")
	visitsPrintCmd.Flags().BoolVar(&printURLOnly, "url-only", false, "print the certificate URL instead of opening it")

	visitsCmd.AddCommand(visitsListCmd, visitsGetCmd, visitsCreateCmd,
		visitsUpdateCmd, visitsDeleteCmd, visitsPrintCmd)
	rootCmd.AddCommand(visitsCmd)
}
