package window

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/PixPMusic/gopher-flexi/internal/config"
	"github.com/PixPMusic/gopher-flexi/internal/surface"
)

// ============ DEVICES TAB ============

func (mw *MainWindow) createDevicesTab() fyne.CanvasObject {
	devicesHeader := boldLabel("MIDI Devices")

	addBtn := widget.NewButtonWithIcon("Add Device", theme.ContentAddIcon(), func() {
		mw.addDevice()
	})

	devicesToolbar := container.NewBorder(nil, nil, devicesHeader, addBtn)

	columnHeaders := container.NewGridWithColumns(5,
		boldLabel("Name"), boldLabel("Input Port"), boldLabel("Output Port"), boldLabel("Surface"),
		widget.NewLabel(""),
	)

	mw.deviceList = widget.NewList(
		func() int { return len(mw.cfg.Devices) },
		func() fyne.CanvasObject { return mw.createDeviceRow() },
		func(id widget.ListItemID, obj fyne.CanvasObject) { mw.updateDeviceRow(id, obj) },
	)

	saveBtn := widget.NewButtonWithIcon("Save & Activate Devices", theme.DocumentSaveIcon(), func() {
		mw.saveAndActivate()
	})
	saveBtn.Importance = widget.HighImportance

	hint := widget.NewLabel("Action availability follows the surfaces configured here and applies after restart")

	actionsSection := container.NewVBox(
		widget.NewSeparator(),
		container.NewHBox(saveBtn, hint),
	)

	return container.NewBorder(
		container.NewVBox(devicesToolbar, widget.NewSeparator(), columnHeaders),
		actionsSection,
		nil, nil,
		mw.deviceList,
	)
}

func surfaceOptions() []string {
	out := make([]string, 0, len(surface.Types))
	for _, t := range surface.Types {
		out = append(out, surface.Lookup(t).Name)
	}
	return out
}

func surfaceFromName(name string) surface.Type {
	for _, t := range surface.Types {
		if surface.Lookup(t).Name == name {
			return t
		}
	}
	return surface.TypeGeneric
}

func (mw *MainWindow) createDeviceRow() fyne.CanvasObject {
	nameEntry := widget.NewEntry()
	nameEntry.SetPlaceHolder("Device Name")

	inPortSelect := widget.NewSelect([]string{}, nil)
	inPortSelect.PlaceHolder = "Select..."

	outPortSelect := widget.NewSelect([]string{}, nil)
	outPortSelect.PlaceHolder = "Select..."

	typeSelect := widget.NewSelect(surfaceOptions(), nil)
	typeSelect.PlaceHolder = "Surface"

	removeBtn := widget.NewButtonWithIcon("", theme.DeleteIcon(), nil)

	return container.NewGridWithColumns(5,
		nameEntry, inPortSelect, outPortSelect, typeSelect,
		container.NewCenter(removeBtn),
	)
}

func portOption(port string) string {
	if port == "" {
		return noneLabel
	}
	return port
}

func portFromOption(s string) string {
	if s == noneLabel {
		return ""
	}
	return s
}

func (mw *MainWindow) updateDeviceRow(id widget.ListItemID, obj fyne.CanvasObject) {
	if id >= len(mw.cfg.Devices) {
		return
	}

	device := &mw.cfg.Devices[id]
	grid := obj.(*fyne.Container)

	nameEntry := grid.Objects[0].(*widget.Entry)
	inPortSelect := grid.Objects[1].(*widget.Select)
	outPortSelect := grid.Objects[2].(*widget.Select)
	typeSelect := grid.Objects[3].(*widget.Select)
	removeBtnContainer := grid.Objects[4].(*fyne.Container)
	removeBtn := removeBtnContainer.Objects[0].(*widget.Button)

	nameEntry.OnChanged = nil
	inPortSelect.OnChanged = nil
	outPortSelect.OnChanged = nil
	typeSelect.OnChanged = nil

	inPortSelect.Options = append([]string{noneLabel}, mw.midiManager.ListInPorts()...)
	outPortSelect.Options = append([]string{noneLabel}, mw.midiManager.ListOutPorts()...)

	nameEntry.SetText(device.Name)
	nameEntry.OnChanged = func(s string) { device.Name = s }

	inPortSelect.SetSelected(portOption(device.InPort))
	inPortSelect.OnChanged = func(s string) { device.InPort = portFromOption(s) }

	outPortSelect.SetSelected(portOption(device.OutPort))
	outPortSelect.OnChanged = func(s string) { device.OutPort = portFromOption(s) }

	typeSelect.SetSelected(surface.Lookup(device.Type).Name)
	typeSelect.OnChanged = func(s string) { device.Type = surfaceFromName(s) }

	deviceID := device.ID
	removeBtn.OnTapped = func() { mw.removeDevice(deviceID) }
}

func (mw *MainWindow) addDevice() {
	mw.cfg.AddDevice(config.NewDeviceConfig())
	mw.deviceList.Refresh()
}

func (mw *MainWindow) removeDevice(id string) {
	mw.cfg.RemoveDevice(id)
	mw.deviceList.Refresh()
}

func (mw *MainWindow) saveAndActivate() {
	if err := mw.cfg.Save(); err != nil {
		mw.log.WithError(err).Error("failed to save config")
		dialog.ShowError(err, mw.window)
		return
	}

	if mw.onDevices != nil {
		mw.onDevices()
	}
}
