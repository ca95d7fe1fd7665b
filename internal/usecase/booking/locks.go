package booking

import "sync"

// barberLocks serializa la sección leer-validar-escribir por barbero.
// La agenda de cada barbero es el único recurso mutuamente excluyente;
// barberos distintos nunca se bloquean entre sí.
type barberLocks struct {
	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func newBarberLocks() *barberLocks {
	return &barberLocks{locks: make(map[uint]*sync.Mutex)}
}

func (l *barberLocks) forBarber(barberID uint) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	lock, ok := l.locks[barberID]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[barberID] = lock
	}
	return lock
}
