package codegen

// Prelude returns the C source every compiled kernel translation unit
// needs ahead of the generated Particle struct and kernel function: the
// standard headers, the FieldHandle/FieldSet types Generate's
// field_sample calls and field->geographic reads assume, and a
// field_sample implementing the same bracket-then-trilinear-interpolate
// algorithm as Axis.Bracket/Field.Sample (field.go, axis.go), returning
// NaN on an out-of-domain query so a generated kernel can check it with
// isnan the same way the interpreted path checks errors.Is(ErrOutOfBounds)
// (spec §4.1, §4.5).
func Prelude() string {
	return `#include <stdint.h>
#include <math.h>
#include <string.h>

typedef struct {
	const char *name;
	const double *lon;
	int64_t nLon;
	const double *lat;
	int64_t nLat;
	const double *time;
	int64_t nTime;
	const float *data;
} FieldHandle;

typedef struct {
	const FieldHandle *fields;
	int64_t nFields;
	int32_t geographic;
} FieldSet;

static int parcels_bracket(const double *axis, int64_t n, double x, int64_t *lo, int64_t *hi, double *w) {
	if (x < axis[0] || x > axis[n - 1]) {
		return 0;
	}
	/* i is the first index with axis[i] >= x, found by binary search. */
	int64_t i = 0, end = n;
	while (i < end) {
		int64_t mid = i + (end - i) / 2;
		if (axis[mid] >= x) {
			end = mid;
		} else {
			i = mid + 1;
		}
	}
	if (i == 0) {
		*lo = 0;
		*hi = 1;
		*w = 0;
		return 1;
	}
	if (i == n - 1 && axis[i] == x) {
		*lo = i - 1;
		*hi = i;
		*w = 1;
		return 1;
	}
	if (axis[i] == x) {
		*lo = i;
		*hi = i + 1;
		*w = 0;
		return 1;
	}
	*lo = i - 1;
	*hi = i;
	*w = (x - axis[*lo]) / (axis[*hi] - axis[*lo]);
	return 1;
}

static const FieldHandle *parcels_find_field(const FieldSet *field, const char *name) {
	int64_t i;
	for (i = 0; i < field->nFields; i++) {
		if (strcmp(field->fields[i].name, name) == 0) {
			return &field->fields[i];
		}
	}
	return 0;
}

static double parcels_field_at(const FieldHandle *f, int64_t iLon, int64_t iLat, int64_t iTime) {
	return (double)f->data[(iLon * f->nLat + iLat) * f->nTime + iTime];
}

double field_sample(const FieldSet *field, const char *name, double lon, double lat, double t) {
	const FieldHandle *f = parcels_find_field(field, name);
	if (!f) {
		return NAN;
	}

	int64_t loLon, hiLon, loLat, hiLat, loT, hiT;
	double wLon, wLat, wT;
	if (!parcels_bracket(f->lon, f->nLon, lon, &loLon, &hiLon, &wLon)) return NAN;
	if (!parcels_bracket(f->lat, f->nLat, lat, &loLat, &hiLat, &wLat)) return NAN;
	if (!parcels_bracket(f->time, f->nTime, t, &loT, &hiT, &wT)) return NAN;

	double v00 = parcels_field_at(f, loLon, loLat, loT);
	double v10 = parcels_field_at(f, hiLon, loLat, loT);
	double v01 = parcels_field_at(f, loLon, hiLat, loT);
	double v11 = parcels_field_at(f, hiLon, hiLat, loT);
	double vLo = (v00 * (1 - wLon) + v10 * wLon) * (1 - wLat) + (v01 * (1 - wLon) + v11 * wLon) * wLat;

	v00 = parcels_field_at(f, loLon, loLat, hiT);
	v10 = parcels_field_at(f, hiLon, loLat, hiT);
	v01 = parcels_field_at(f, loLon, hiLat, hiT);
	v11 = parcels_field_at(f, hiLon, hiLat, hiT);
	double vHi = (v00 * (1 - wLon) + v10 * wLon) * (1 - wLat) + (v01 * (1 - wLon) + v11 * wLon) * wLat;

	double val = vLo * (1 - wT) + vHi * wT;
	return val;
}

`
}
