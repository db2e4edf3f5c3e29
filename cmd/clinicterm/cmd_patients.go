package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"clinicterm/internal/clinic"
)

var (
	patientName string
	patientSex  string
	assumeYes   bool
)

var patientsCmd = &cobra.Command{
	Use:   "patients",
	Short: "Manage patient records",
}

var patientsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all patients",
	RunE:  patientsList,
}

var patientsSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search patients by name",
	Args:  cobra.ExactArgs(1),
	RunE:  patientsSearch,
}

var patientsGetCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Show one patient",
	Args:  cobra.ExactArgs(1),
	RunE:  patientsGet,
}

var patientsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a patient",
	Long: `Creates a patient record.

Example:
  clinicterm patients create --name "Ana Cruz" --sex F`,
	RunE: patientsCreate,
}

var patientsUpdateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Update a patient",
	Args:  cobra.ExactArgs(1),
	RunE:  patientsUpdate,
}

var patientsDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a patient and all their visits",
	Args:  cobra.ExactArgs(1),
	RunE:  patientsDelete,
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func printPatientTable(patients []clinic.Patient) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSEX")
	for _, p := range patients {
		fmt.Fprintf(w, "%d\t%s\t%s\n", p.ID, p.Name, p.Sex)
	}
	w.Flush()
}

func patientsList(cmd *cobra.Command, args []string) error {
	patients, err := backend.ListPatients(cmd.Context())
	if err != nil {
		return err
	}
	printPatientTable(patients)
	return nil
}

func patientsSearch(cmd *cobra.Command, args []string) error {
	patients, err := backend.SearchPatients(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	printPatientTable(patients)
	return nil
}

func patientsGet(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	p, err := backend.GetPatient(cmd.Context(), id)
	if err != nil {
		return err
	}
	printPatientTable([]clinic.Patient{*p})
	return nil
}

func patientsCreate(cmd *cobra.Command, args []string) error {
	id, err := backend.CreatePatient(cmd.Context(), clinic.Patient{
		Name: patientName,
		Sex:  patientSex,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Patient #%d created\n", id)
	return nil
}

func patientsUpdate(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	p, err := backend.GetPatient(cmd.Context(), id)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("name") {
		p.Name = patientName
	}
	if cmd.Flags().Changed("sex") {
		p.Sex = patientSex
	}
	if err := backend.UpdatePatient(cmd.Context(), *p); err != nil {
		return err
	}
	fmt.Printf("Patient #%d updated\n", id)
	return nil
}

func patientsDelete(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	p, err := backend.GetPatient(cmd.Context(), id)
	if err != nil {
		return err
	}
	if !assumeYes && !confirmOnTerminal(fmt.Sprintf("Delete patient %q and all their visits?", p.Name)) {
		fmt.Println("Cancelled")
		return nil
	}
	if err := backend.DeletePatient(cmd.Context(), id); err != nil {
		return err
	}
	fmt.Printf("Patient #%d deleted\n", id)
	return nil
}

func init() {
	patientsCreateCmd.Flags().StringVar(&patientName, "name", "", "patient name (required)")
	patientsCreateCmd.Flags().StringVar(&patientSex, "sex", "", "patient sex")
	_ = patientsCreateCmd.MarkFlagRequired("name")

	patientsUpdateCmd.Flags().StringVar(&patientName, "name", "", "patient name")
	patientsUpdateCmd.Flags().StringVar(&patientSex, "sex", "", "patient sex")

	patientsDeleteCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "skip confirmation")

	patientsCmd.AddCommand(patientsListCmd, patientsSearchCmd, patientsGetCmd,
		patientsCreateCmd, patientsUpdateCmd, patientsDeleteCmd)
	rootCmd.AddCommand(patientsCmd)
}
