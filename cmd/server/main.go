package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"

	"vieride/internal/api"
	"vieride/internal/auth"
	"vieride/internal/booking"
	"vieride/internal/repository"
	"vieride/internal/service"
)

func main() {
	godotenv.Load()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL not set")
	}
	database, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	if err := database.Ping(); err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}

	catalog := booking.DefaultCatalog()
	if err := catalog.Validate(); err != nil {
		log.Fatalf("Invalid vehicle catalog: %v", err)
	}

	bookingRepo := repository.NewBookingRepository(database)
	accountRepo := repository.NewAccountRepository(database)
	driverRepo := repository.NewDriverRepository(database)
	jobRepo := repository.NewJobRepository(database)

	stripeSvc := service.NewStripeService()
	notifySvc := service.NewNotifyService(catalog)
	bookingSvc := service.NewBookingService(bookingRepo, driverRepo, stripeSvc, catalog)
	accountSvc := service.NewAccountService(accountRepo)
	jobSvc := service.NewJobService(jobRepo, notifySvc)

	var suggester booking.Suggester
	if suggestSvc, err := service.NewSuggestService(); err != nil {
		log.Printf("Address suggestions disabled: %v", err)
	} else {
		suggester = suggestSvc
	}

	wizardSvc := service.NewWizardService(catalog, bookingSvc, notifySvc, suggester)

	wizardHandler := api.NewWizardHandler(wizardSvc, bookingSvc, accountSvc, catalog)
	bookingHandler := api.NewBookingHandler(bookingSvc, accountSvc, catalog)
	accountHandler := api.NewAccountHandler(accountSvc)
	adminHandler := api.NewAdminHandler(bookingSvc, driverRepo)
	stripeHandler := api.NewStripeWebhookHandler(os.Getenv("STRIPE_WEBHOOK_SECRET"), bookingSvc, stripeSvc, notifySvc)

	r := mux.NewRouter()

	// Public endpoints
	r.HandleFunc("/api/vehicles", bookingHandler.ListVehicles).Methods("GET")
	r.HandleFunc("/api/cities", bookingHandler.ListCities).Methods("GET")
	r.Handle("/api/quotes", auth.OptionalAuth(http.HandlerFunc(bookingHandler.GetQuotes))).Methods("GET")

	r.HandleFunc("/api/accounts/register", accountHandler.Register).Methods("POST")
	r.HandleFunc("/api/accounts/login", accountHandler.Login).Methods("POST")

	// Booking wizard (guests allowed, accounts get prefill and discounts)
	wizard := r.PathPrefix("/api/wizard").Subrouter()
	wizard.Use(auth.OptionalAuth)
	wizard.HandleFunc("", wizardHandler.StartWizard).Methods("POST")
	wizard.HandleFunc("/{id}", wizardHandler.GetState).Methods("GET")
	wizard.HandleFunc("/{id}/trip", wizardHandler.UpdateTrip).Methods("PUT")
	wizard.HandleFunc("/{id}/details", wizardHandler.UpdateDetails).Methods("PUT")
	wizard.HandleFunc("/{id}/vehicle", wizardHandler.SelectVehicle).Methods("PUT")
	wizard.HandleFunc("/{id}/contact", wizardHandler.UpdateContact).Methods("PUT")
	wizard.HandleFunc("/{id}/next", wizardHandler.Next).Methods("POST")
	wizard.HandleFunc("/{id}/back", wizardHandler.Back).Methods("POST")
	wizard.HandleFunc("/{id}/submit", wizardHandler.Submit).Methods("POST")
	wizard.HandleFunc("/{id}/suggest", wizardHandler.Suggest).Methods("POST")

	// Account endpoints (protected)
	account := r.PathPrefix("/api/accounts").Subrouter()
	account.Use(auth.RequireAuth)
	account.HandleFunc("/me", accountHandler.GetProfile).Methods("GET")
	account.HandleFunc("/me", accountHandler.UpdateProfile).Methods("PUT")
	account.HandleFunc("/me/company", accountHandler.JoinCompany).Methods("POST")
	account.HandleFunc("/me/company", accountHandler.LeaveCompany).Methods("DELETE")

	bookings := r.PathPrefix("/api/bookings").Subrouter()
	bookings.Use(auth.RequireAuth)
	bookings.HandleFunc("", bookingHandler.ListMyBookings).Methods("GET")
	bookings.HandleFunc("/{code}", bookingHandler.GetMyBooking).Methods("GET")
	bookings.HandleFunc("/{code}", bookingHandler.CancelMyBooking).Methods("DELETE")
	bookings.HandleFunc("/{code}/rating", bookingHandler.RateMyBooking).Methods("POST")
	bookings.HandleFunc("/{code}/reminder", bookingHandler.SetReminder).Methods("PUT")

	// Admin endpoints (protected)
	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(auth.RequireAdmin)
	admin.HandleFunc("/bookings", adminHandler.ListBookings).Methods("GET")
	admin.HandleFunc("/bookings/{code}/status", adminHandler.UpdateStatus).Methods("PUT")
	admin.HandleFunc("/bookings/{code}/driver", adminHandler.AssignDriver).Methods("PUT")
	admin.HandleFunc("/drivers", adminHandler.ListDrivers).Methods("GET")
	admin.HandleFunc("/drivers", adminHandler.CreateDriver).Methods("POST")
	admin.HandleFunc("/drivers/{id}", adminHandler.UpdateDriver).Methods("PUT")
	admin.HandleFunc("/drivers/{id}", adminHandler.DeleteDriver).Methods("DELETE")

	// Stripe
	r.HandleFunc("/api/stripe/webhook", stripeHandler.HandleWebhook).Methods("POST")
	r.HandleFunc("/api/stripe/booking", stripeHandler.GetBookingBySessionID).Methods("GET")

	c := cron.New()
	c.AddFunc("@every 15m", func() {
		if err := jobSvc.CompleteFinishedBookings(); err != nil {
			log.Printf("Cron Job error: %v", err)
		}
	})
	c.AddFunc("@every 1h", func() {
		if err := jobSvc.SendPickupReminders(); err != nil {
			log.Printf("Cron Job error: %v", err)
		}
	})
	c.AddFunc("@every 24h", func() {
		if err := jobSvc.CleanupAbandonedCardBookings(); err != nil {
			log.Printf("Cron Job error: %v", err)
		}
	})
	c.AddFunc("@every 10m", wizardSvc.SweepExpired)
	c.Start()
	defer c.Stop()

	corsOrigins := handlers.AllowedOrigins([]string{os.Getenv("CORS_ORIGIN")})
	corsMethods := handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	corsHeaders := handlers.AllowedHeaders([]string{"Content-Type", "Authorization"})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Server running on port %s", port)
	log.Fatal(http.ListenAndServe(":"+port, handlers.CORS(corsOrigins, corsMethods, corsHeaders)(r)))
}
