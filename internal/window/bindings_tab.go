package window

import (
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/PixPMusic/gopher-flexi/internal/actions"
	"github.com/PixPMusic/gopher-flexi/internal/binding"
	"github.com/PixPMusic/gopher-flexi/internal/midi"
)

// ============ BINDINGS TAB ============

const bindingColumns = 12

func boldLabel(text string) *widget.Label {
	l := widget.NewLabel(text)
	l.TextStyle = fyne.TextStyle{Bold: true}
	return l
}

func (mw *MainWindow) createBindingsTab() fyne.CanvasObject {
	header := boldLabel("Bindings")
	subtitle := widget.NewLabel("Press Learn, then move a control to bind it")

	columnHeaders := container.NewGridWithColumns(bindingColumns,
		boldLabel("Name"), boldLabel("Type"), boldLabel("Channel"), boldLabel("Number"),
		boldLabel("Action"), boldLabel("Slot"), boldLabel("Encoding"), boldLabel("Step"),
		boldLabel("Invert"), boldLabel("Feedback"), widget.NewLabel(""), widget.NewLabel(""),
	)

	mw.bindingList = widget.NewList(
		func() int { return len(mw.bindings) },
		func() fyne.CanvasObject { return mw.createBindingRow() },
		func(id widget.ListItemID, obj fyne.CanvasObject) { mw.updateBindingRow(id, obj) },
	)

	addBtn := widget.NewButtonWithIcon("Add Binding", theme.ContentAddIcon(), func() {
		mw.addBinding()
	})
	learnNewBtn := widget.NewButtonWithIcon("Learn New", theme.MediaRecordIcon(), func() {
		mw.learn(binding.Binding{ActionID: mw.firstActionID(), StepSize: 1, Feedback: true})
	})

	mw.learnLabel = widget.NewLabel("")
	mw.cancelBtn = widget.NewButtonWithIcon("Cancel Learn", theme.CancelIcon(), func() {
		mw.engine.Cancel()
		mw.learnLabel.SetText("Learn cancelled")
		mw.cancelBtn.Disable()
	})
	mw.cancelBtn.Disable()

	mw.duplicateMsg = widget.NewLabel("")
	mw.duplicateMsg.Importance = widget.WarningImportance

	resendBtn := widget.NewButtonWithIcon("Resend Feedback", theme.ViewRefreshIcon(), func() {
		mw.engine.Refresh()
	})

	listToolbar := container.NewHBox(addBtn, learnNewBtn, mw.cancelBtn, mw.learnLabel)

	mw.refreshDuplicates()

	return container.NewBorder(
		container.NewVBox(header, subtitle, widget.NewSeparator(), listToolbar, columnHeaders),
		container.NewVBox(widget.NewSeparator(), container.NewBorder(nil, nil, mw.duplicateMsg, resendBtn)),
		nil, nil,
		mw.bindingList,
	)
}

func (mw *MainWindow) createBindingRow() fyne.CanvasObject {
	nameEntry := widget.NewEntry()
	nameEntry.SetPlaceHolder("Binding name")

	typeSelect := widget.NewSelect(kindOptions(), nil)
	typeSelect.PlaceHolder = "Type"

	channelSelect := widget.NewSelect(channelOptions(), nil)
	channelSelect.PlaceHolder = "Ch"

	numberEntry := widget.NewEntry()
	numberEntry.SetPlaceHolder("Any")

	actionSelect := widget.NewSelect([]string{noneLabel}, nil)
	actionSelect.PlaceHolder = "Action"

	slotSelect := widget.NewSelect([]string{"-"}, nil)

	encodingSelect := widget.NewSelect(encodingOptions(), nil)

	stepEntry := widget.NewEntry()
	stepEntry.SetPlaceHolder("1")

	invertCheck := widget.NewCheck("", nil)

	feedbackCheck := widget.NewCheck("", nil)

	learnBtn := widget.NewButtonWithIcon("Learn", theme.MediaRecordIcon(), nil)
	deleteBtn := widget.NewButtonWithIcon("", theme.DeleteIcon(), nil)

	return container.NewGridWithColumns(bindingColumns,
		nameEntry, typeSelect, channelSelect, numberEntry, actionSelect,
		slotSelect, encodingSelect, stepEntry, invertCheck, feedbackCheck, learnBtn, deleteBtn,
	)
}

func (mw *MainWindow) updateBindingRow(id widget.ListItemID, obj fyne.CanvasObject) {
	if id >= len(mw.bindings) {
		return
	}

	b := mw.bindings[id]
	row := obj.(*fyne.Container)

	nameEntry := row.Objects[0].(*widget.Entry)
	typeSelect := row.Objects[1].(*widget.Select)
	channelSelect := row.Objects[2].(*widget.Select)
	numberEntry := row.Objects[3].(*widget.Entry)
	actionSelect := row.Objects[4].(*widget.Select)
	slotSelect := row.Objects[5].(*widget.Select)
	encodingSelect := row.Objects[6].(*widget.Select)
	stepEntry := row.Objects[7].(*widget.Entry)
	invertCheck := row.Objects[8].(*widget.Check)
	feedbackCheck := row.Objects[9].(*widget.Check)
	learnBtn := row.Objects[10].(*widget.Button)
	deleteBtn := row.Objects[11].(*widget.Button)

	// Rows are recycled: drop the previous binding's handlers before setting values
	nameEntry.OnSubmitted = nil
	typeSelect.OnChanged = nil
	channelSelect.OnChanged = nil
	numberEntry.OnSubmitted = nil
	actionSelect.OnChanged = nil
	slotSelect.OnChanged = nil
	encodingSelect.OnChanged = nil
	stepEntry.OnSubmitted = nil
	invertCheck.OnChanged = nil
	feedbackCheck.OnChanged = nil

	bindingID := b.ID

	nameEntry.SetText(b.Name)
	nameEntry.OnSubmitted = func(s string) {
		mw.editBinding(bindingID, func(b *binding.Binding) { b.Name = s })
	}

	typeSelect.SetSelected(kindLabels[b.Trigger.Kind])
	typeSelect.OnChanged = func(s string) {
		kind, ok := kindFromLabel(s)
		if !ok {
			return
		}
		mw.editBinding(bindingID, func(b *binding.Binding) {
			b.Trigger = midi.NewTrigger(kind, b.Trigger.Channel, b.Trigger.Data1)
		})
	}

	channelSelect.SetSelected(channelLabel(b.Trigger.Channel))
	channelSelect.OnChanged = func(s string) {
		mw.editBinding(bindingID, func(b *binding.Binding) {
			b.Trigger = midi.NewTrigger(b.Trigger.Kind, channelFromLabel(s), b.Trigger.Data1)
		})
	}

	numberEntry.SetText(numberLabel(b.Trigger.Data1))
	if b.Trigger.Kind.HasData1() {
		numberEntry.Enable()
	} else {
		numberEntry.Disable()
	}
	numberEntry.OnSubmitted = func(s string) {
		n, ok := numberFromText(s)
		if !ok {
			dialog.ShowError(fmt.Errorf("%q is not a number from 0 to 127", s), mw.window)
			return
		}
		mw.editBinding(bindingID, func(b *binding.Binding) {
			b.Trigger = midi.NewTrigger(b.Trigger.Kind, b.Trigger.Channel, n)
		})
	}

	all := mw.engine.Registry().All()
	options := []string{noneLabel}
	var current *actions.Action
	for _, a := range all {
		options = append(options, a.Name)
		if a.ID == b.ActionID {
			current = a
		}
	}
	actionSelect.Options = options
	if current != nil {
		actionSelect.SetSelected(current.Name)
	} else {
		actionSelect.SetSelected(noneLabel)
	}
	actionSelect.OnChanged = func(s string) {
		for _, a := range all {
			if a.Name == s {
				mw.editBinding(bindingID, func(b *binding.Binding) {
					b.ActionID = a.ID
					b.ActionChannel = 0
				})
				return
			}
		}
	}

	channels := 0
	if current != nil {
		channels = current.Channels
	}
	slotSelect.Options = actionChannelOptions(channels)
	if channels > 1 {
		slotSelect.Enable()
		slotSelect.SetSelected(strconv.Itoa(b.ActionChannel + 1))
	} else {
		slotSelect.SetSelected("-")
		slotSelect.Disable()
	}
	slotSelect.OnChanged = func(s string) {
		slot, err := strconv.Atoi(s)
		if err != nil {
			return
		}
		mw.editBinding(bindingID, func(b *binding.Binding) { b.ActionChannel = slot - 1 })
	}

	encodingSelect.SetSelected(encodingLabels[b.Encoding])
	encodingSelect.OnChanged = func(s string) {
		mw.editBinding(bindingID, func(b *binding.Binding) { b.Encoding = encodingFromLabel(s) })
	}

	stepEntry.SetText(strconv.Itoa(b.Step()))
	stepEntry.OnSubmitted = func(s string) {
		step, ok := stepFromText(s)
		if !ok {
			dialog.ShowError(fmt.Errorf("%q is not a step size of 1 or more", s), mw.window)
			return
		}
		mw.editBinding(bindingID, func(b *binding.Binding) { b.StepSize = step })
	}

	invertCheck.SetChecked(b.Invert)
	invertCheck.OnChanged = func(on bool) {
		mw.editBinding(bindingID, func(b *binding.Binding) { b.Invert = on })
	}

	feedbackCheck.SetChecked(b.Feedback)
	feedbackCheck.OnChanged = func(on bool) {
		mw.editBinding(bindingID, func(b *binding.Binding) { b.Feedback = on })
	}

	learnBtn.OnTapped = func() {
		if cur, ok := mw.findBinding(bindingID); ok {
			mw.learn(cur)
		}
	}
	deleteBtn.OnTapped = func() {
		mw.deleteBinding(bindingID)
	}
}

func (mw *MainWindow) findBinding(id string) (binding.Binding, bool) {
	for _, b := range mw.bindings {
		if b.ID == id {
			return b, true
		}
	}
	return binding.Binding{}, false
}

func (mw *MainWindow) editBinding(id string, edit func(*binding.Binding)) {
	b, ok := mw.findBinding(id)
	if !ok {
		return
	}
	edit(&b)
	if err := mw.engine.Update(b); err != nil {
		mw.log.WithError(err).WithField("binding", id).Warn("failed to update binding")
		dialog.ShowError(err, mw.window)
	}
}

func (mw *MainWindow) firstActionID() string {
	all := mw.engine.Registry().All()
	if len(all) == 0 {
		return ""
	}
	return all[0].ID
}

func (mw *MainWindow) addBinding() {
	b := binding.New(midi.NewTrigger(midi.KindCC, 0, 0), mw.firstActionID(), 0)
	b.Feedback = true
	if _, err := mw.engine.Bind(b); err != nil {
		mw.log.WithError(err).Warn("failed to add binding")
		dialog.ShowError(err, mw.window)
	}
}

func (mw *MainWindow) deleteBinding(id string) {
	b, ok := mw.findBinding(id)
	if !ok {
		return
	}
	name := b.Name
	if name == "" {
		name = b.Trigger.String()
	}
	dialog.ShowConfirm("Delete Binding", "Are you sure you want to delete '"+name+"'?",
		func(confirm bool) {
			if confirm {
				mw.engine.Remove(id)
			}
		}, mw.window)
}

func (mw *MainWindow) learn(slot binding.Binding) {
	slot = mw.engine.Arm(slot)
	name := slot.Name
	if name == "" {
		name = slot.ActionID
	}
	mw.learnLabel.SetText("Move a control to bind " + name + "...")
	mw.cancelBtn.Enable()
}

func (mw *MainWindow) refreshBindings() {
	if mw.bindingList != nil {
		mw.bindingList.Refresh()
	}
	mw.refreshDuplicates()
}

func (mw *MainWindow) refreshDuplicates() {
	if mw.duplicateMsg == nil {
		return
	}
	groups := mw.engine.Duplicates()
	if len(groups) == 0 {
		mw.duplicateMsg.SetText("")
		return
	}
	mw.duplicateMsg.SetText(fmt.Sprintf("%d trigger/action pairs are bound more than once: %s", len(groups), groups[0][0].Trigger))
}
