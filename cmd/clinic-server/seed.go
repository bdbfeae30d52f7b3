package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinic/clinic/internal/domain/appointment"
	"github.com/clinic/clinic/internal/domain/billing"
	"github.com/clinic/clinic/internal/domain/identity"
	"github.com/clinic/clinic/internal/domain/prescription"
	"github.com/clinic/clinic/internal/platform/auth"
)

// runSeed wipes the database and loads the demo data set: one admin,
// four doctors, five patients, and a spread of appointments with
// prescriptions and invoices. Development use only.
func runSeed(ctx context.Context, pool *pgxpool.Pool) error {
	fmt.Println("Seeding data...")

	// Dependents first, then profiles, then accounts.
	for _, table := range []string{"invoice", "prescription", "appointment", "doctor_profile", "patient_profile", "account"} {
		if _, err := pool.Exec(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	accounts := identity.NewAccountRepo(pool)
	appts := appointment.NewRepo(pool)
	rxs := prescription.NewRepo(pool)
	invoices := billing.NewRepo(pool)

	register := func(username, email, password, role, first, last string, d *identity.Doctor, p *identity.Patient) error {
		hash, err := auth.HashPassword(password)
		if err != nil {
			return err
		}
		a := &identity.Account{
			Username:     username,
			Email:        email,
			FirstName:    first,
			LastName:     last,
			PasswordHash: hash,
			Role:         role,
		}
		if err := accounts.Register(ctx, a, d, p); err != nil {
			return fmt.Errorf("seed account %s: %w", username, err)
		}
		return nil
	}

	if err := register("admin", "admin@hospital.com", "admin123", "admin", "Admin", "User", nil, nil); err != nil {
		return err
	}
	fmt.Println("Admin created")

	doctors := []*identity.Doctor{
		{Specialization: "cardiologist", ExperienceYears: 10, ConsultationFee: 800, IsAvailable: true},
		{Specialization: "neurologist", ExperienceYears: 8, ConsultationFee: 700, IsAvailable: true},
		{Specialization: "orthopedic", ExperienceYears: 15, ConsultationFee: 600, IsAvailable: true},
		{Specialization: "general", ExperienceYears: 5, ConsultationFee: 400, IsAvailable: true},
	}
	doctorAccounts := []struct{ username, email, first, last string }{
		{"dr_smith", "smith@hospital.com", "John", "Smith"},
		{"dr_priya", "priya@hospital.com", "Priya", "Sharma"},
		{"dr_kumar", "kumar@hospital.com", "Raj", "Kumar"},
		{"dr_mehta", "mehta@hospital.com", "Anjali", "Mehta"},
	}
	for i, d := range doctors {
		acct := doctorAccounts[i]
		if err := register(acct.username, acct.email, "doctor123", "doctor", acct.first, acct.last, d, nil); err != nil {
			return err
		}
	}
	fmt.Println("4 doctors created")

	dob := func(s string) time.Time {
		t, _ := time.Parse("2006-01-02", s)
		return t
	}
	patients := []*identity.Patient{
		{DateOfBirth: dob("1990-05-15"), BloodGroup: "B+", Phone: "9876543210", Address: "Mumbai", EmergencyContact: "9876543211"},
		{DateOfBirth: dob("1995-08-22"), BloodGroup: "O+", Phone: "9876543212", Address: "Delhi", EmergencyContact: "9876543213"},
		{DateOfBirth: dob("1988-03-10"), BloodGroup: "A+", Phone: "9876543214", Address: "Bangalore", EmergencyContact: "9876543215"},
		{DateOfBirth: dob("2000-11-30"), BloodGroup: "AB+", Phone: "9876543216", Address: "Chennai", EmergencyContact: "9876543217"},
		{DateOfBirth: dob("1975-07-04"), BloodGroup: "O-", Phone: "9876543218", Address: "Hyderabad", EmergencyContact: "9876543219"},
	}
	patientAccounts := []struct{ username, email, first, last string }{
		{"patient_arjun", "arjun@gmail.com", "Arjun", "Verma"},
		{"patient_sneha", "sneha@gmail.com", "Sneha", "Reddy"},
		{"patient_rohit", "rohit@gmail.com", "Rohit", "Singh"},
		{"patient_nisha", "nisha@gmail.com", "Nisha", "Patel"},
		{"patient_vikram", "vikram@gmail.com", "Vikram", "Malhotra"},
	}
	for i, p := range patients {
		acct := patientAccounts[i]
		if err := register(acct.username, acct.email, "patient123", "patient", acct.first, acct.last, nil, p); err != nil {
			return err
		}
	}
	fmt.Println("5 patients created")

	now := time.Now().UTC()
	apptData := []struct {
		doctor, patient int
		days            int
		status, notes   string
	}{
		{0, 0, -2, appointment.StatusCompleted, "Regular cardiac checkup"},
		{1, 1, -1, appointment.StatusCompleted, "Headache and dizziness"},
		{2, 2, 1, appointment.StatusScheduled, "Knee pain follow-up"},
		{3, 3, 2, appointment.StatusScheduled, "Fever and cold"},
		{0, 4, -3, appointment.StatusCancelled, "Heart palpitations"},
		{1, 0, 3, appointment.StatusScheduled, "MRI review"},
		{3, 2, -1, appointment.StatusCompleted, "General checkup"},
	}
	created := make([]*appointment.Appointment, 0, len(apptData))
	for _, ad := range apptData {
		a := &appointment.Appointment{
			DoctorID:        doctors[ad.doctor].ID,
			PatientID:       patients[ad.patient].ID,
			AppointmentDate: now.AddDate(0, 0, ad.days),
			Status:          ad.status,
			Notes:           ad.notes,
		}
		if err := appts.Create(ctx, a); err != nil {
			return fmt.Errorf("seed appointment: %w", err)
		}
		created = append(created, a)
	}
	fmt.Printf("%d appointments created\n", len(created))

	rxData := []struct {
		appt                               int
		diagnosis, medicines, instructions string
	}{
		{0, "Mild hypertension detected", "Amlodipine 5mg - once daily\nAspirin 75mg - once daily", "Reduce salt intake. Walk 30 mins daily. Follow up in 2 weeks."},
		{1, "Tension headache with mild vertigo", "Ibuprofen 400mg - twice daily after meals\nBetahistine 16mg - twice daily", "Rest adequately. Avoid screen time. Stay hydrated."},
		{6, "Seasonal flu", "Paracetamol 500mg - thrice daily\nCetirizine 10mg - at night", "Drink warm fluids. Rest for 3 days. Come back if fever persists."},
	}
	for _, r := range rxData {
		err := rxs.Create(ctx, &prescription.Prescription{
			AppointmentID: created[r.appt].ID,
			Diagnosis:     r.diagnosis,
			Medicines:     r.medicines,
			Instructions:  r.instructions,
		})
		if err != nil {
			return fmt.Errorf("seed prescription: %w", err)
		}
	}
	fmt.Println("3 prescriptions created")

	invoiceData := []struct {
		appt   int
		amount float64
		status string
	}{
		{0, 800, billing.StatusPaid},
		{1, 700, billing.StatusPaid},
		{4, 800, billing.StatusCancelled},
		{6, 400, billing.StatusPending},
	}
	for _, iv := range invoiceData {
		inv := &billing.Invoice{
			AppointmentID: created[iv.appt].ID,
			Amount:        iv.amount,
			Status:        iv.status,
		}
		if iv.status == billing.StatusPaid {
			paidAt := now
			inv.PaidAt = &paidAt
		}
		if err := invoices.Create(ctx, inv); err != nil {
			return fmt.Errorf("seed invoice: %w", err)
		}
	}
	fmt.Println("4 invoices created")

	fmt.Println("Done. Logins: admin/admin123, dr_smith/doctor123, patient_arjun/patient123 (and friends).")
	return nil
}
