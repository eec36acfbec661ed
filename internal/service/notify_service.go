package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"
	"path/filepath"
	"time"

	"vieride/internal/booking"
	"vieride/internal/entities"
)

// NotifyService sends booking confirmations and pickup reminders. It backs
// the wizard's Notifier contract.
type NotifyService struct {
	catalog *booking.Catalog
}

func NewNotifyService(catalog *booking.Catalog) *NotifyService {
	return &NotifyService{catalog: catalog}
}

func viennaLocation() *time.Location {
	loc, err := time.LoadLocation("Europe/Vienna")
	if err != nil {
		return time.FixedZone("CET", 1*60*60)
	}
	return loc
}

func formatPickup(date, clock string) string {
	pickup, err := time.Parse("2006-01-02T15:04", date+"T"+clock)
	if err != nil {
		return date + " " + clock
	}
	return pickup.Format("02 Jan 2006 15:04")
}

// SendConfirmation emails the booking summary to the contact address. The
// caller decides what a failure means; this method just reports it.
func (s *NotifyService) SendConfirmation(ctx context.Context, rec *booking.Record) error {
	vehicleName := rec.VehicleID
	if v, ok := s.catalog.VehicleByID(rec.VehicleID); ok {
		vehicleName = v.Name
	}

	emailData := entities.ConfirmationEmailData{
		ContactName:     rec.ContactName,
		BookingCode:     rec.Code,
		Pickup:          rec.Pickup,
		Dropoff:         rec.Dropoff,
		Address:         rec.Address,
		PickupFormatted: formatPickup(rec.Date, rec.Time),
		FlightNumber:    rec.FlightNumber,
		VehicleName:     vehicleName,
		Passengers:      rec.Passengers,
		Price:           rec.Price,
		PaymentMethod:   string(rec.PaymentMethod),
		Status:          rec.Status,
		CheckoutURL:     rec.CheckoutURL,
		CurrentYear:     time.Now().In(viennaLocation()).Year(),
	}

	emailSubject := fmt.Sprintf("Your VieRide transfer is %s - Code: %s", rec.Status, rec.Code)
	plainTextBody := fmt.Sprintf(
		"Hello %s,\n\nYour airport transfer with VieRide is %s.\n\n"+
			"Booking Details:\n"+
			"Booking Code: %s\n"+
			"Pickup: %s\n"+
			"Dropoff: %s\n"+
			"Address: %s\n"+
			"Pickup time: %s\n"+
			"Vehicle: %s\n"+
			"Price: EUR %d\n\n"+
			"Thank you for choosing VieRide.\n\n"+
			"VieRide. All rights reserved.",
		emailData.ContactName, emailData.Status, emailData.BookingCode,
		emailData.Pickup, emailData.Dropoff, emailData.Address,
		emailData.PickupFormatted, emailData.VehicleName, emailData.Price,
	)

	tmplPath := filepath.Join("internal", "templates", "confirmation_email.html")
	htmlBody := ""
	tmpl, err := template.ParseFiles(tmplPath)
	if err != nil {
		log.Printf("ALERT: error parsing confirmation email template (%s): %v", tmplPath, err)
	} else {
		var htmlBodyBuffer bytes.Buffer
		if err := tmpl.Execute(&htmlBodyBuffer, emailData); err != nil {
			log.Printf("ALERT: error executing confirmation email template for booking %s: %v", rec.Code, err)
		} else {
			htmlBody = htmlBodyBuffer.String()
		}
	}

	return SendEmailWithSendGrid(rec.ContactEmail, rec.ContactName, emailSubject, plainTextBody, htmlBody)
}

// SendPickupReminder texts the contact shortly before pickup.
func (s *NotifyService) SendPickupReminder(rec *booking.Record) error {
	message := fmt.Sprintf("VieRide: reminder for transfer %s.\nPickup: %s at %s.\nMore details in your email.",
		rec.Code, formatPickup(rec.Date, rec.Time), rec.Pickup)
	return SendSMS(rec.ContactPhone, message)
}
