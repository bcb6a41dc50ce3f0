package reschedule_appointment

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// Request модель запроса на перенос записи
type Request struct {
	AppointmentID  int64
	Date           time.Time
	StartTime      types.TimeString
	EndTime        types.TimeString // только проверка формата, конец считается по услугам
	ProfessionalID *int64           // nil - мастер не меняется
}
