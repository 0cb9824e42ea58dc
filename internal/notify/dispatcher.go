package notify

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
)

// Confirmation es el contrato que el núcleo entrega al sistema de correo:
// datos del paciente, sucursal, servicio, fecha/hora legibles y los dos
// links de canje del token.
type Confirmation struct {
	PatientName  string
	PatientEmail string

	LocationName string
	ServiceName  string

	Date string // YYYY-MM-DD
	Time string // HH:MM

	ConfirmURL string
	CancelURL  string
}

type Dispatcher struct {
	mailer Mailer
	queue  chan Confirmation
}

// NewDispatcher arranca el worker de envío. Igual que la auditoría, una
// falla de correo nunca tumba ni retrasa la reserva.
func NewDispatcher(mailer Mailer) *Dispatcher {
	if mailer == nil {
		mailer = LogMailer{}
	}

	d := &Dispatcher{
		mailer: mailer,
		queue:  make(chan Confirmation, 100),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	for conf := range d.queue {
		msgID := uuid.NewString()

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		msg := buildMessage(conf)
		if err := d.mailer.Send(ctx, msg); err != nil {
			log.Printf("notify: envío fallido msg_id=%s: %v", msgID, err)
		}
		cancel()
	}
}

func (d *Dispatcher) Dispatch(conf Confirmation) {
	select {
	case d.queue <- conf:
		// encolado
	default:
		log.Println("notify: cola llena, se descarta la notificación")
	}
}

// --------------------------------------------------
// Formato del mensaje
// --------------------------------------------------

var spanishMonths = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

var spanishWeekdays = [...]string{
	"domingo", "lunes", "martes", "miércoles", "jueves", "viernes", "sábado",
}

// HumanDate convierte "2025-03-10" en "lunes 10 de marzo de 2025".
func HumanDate(date string) string {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return fmt.Sprintf(
		"%s %d de %s de %d",
		spanishWeekdays[int(d.Weekday())],
		d.Day(),
		spanishMonths[int(d.Month())-1],
		d.Year(),
	)
}

func buildMessage(conf Confirmation) EmailMessage {
	body := fmt.Sprintf(
		"Hola %s,\n\n"+
			"Recibimos tu solicitud de cita:\n\n"+
			"  Sucursal: %s\n"+
			"  Servicio: %s\n"+
			"  Fecha:    %s\n"+
			"  Hora:     %s\n\n"+
			"Confirma tu cita aquí:\n%s\n\n"+
			"Si necesitas cancelarla:\n%s\n",
		conf.PatientName,
		conf.LocationName,
		conf.ServiceName,
		HumanDate(conf.Date),
		conf.Time,
		conf.ConfirmURL,
		conf.CancelURL,
	)

	return EmailMessage{
		To:      conf.PatientEmail,
		ToName:  conf.PatientName,
		Subject: fmt.Sprintf("Tu cita en %s — %s %s", conf.LocationName, HumanDate(conf.Date), conf.Time),
		Body:    body,
	}
}
